package tuscan

import (
	"bytes"
	"testing"
)

func TestRevComp(t *testing.T) {
	type args struct {
		seq string
	}
	tests := []struct {
		name string
		args args
		want string
	}{
		{
			"complements and reverses",
			args{"ACGTTG"},
			"CAACGT",
		},
		{
			"handles lowercase",
			args{"acgttg"},
			"CAACGT",
		},
		{
			"maps ambiguity codes to N",
			args{"ACNRT"},
			"ANNGT",
		},
		{
			"empty",
			args{""},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RevComp([]byte(tt.args.seq)); string(got) != tt.want {
				t.Errorf("RevComp() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRevCompInvolution(t *testing.T) {
	seqs := []string{
		"A",
		"ACGT",
		"GGGGGGGG",
		"ATATTACAGTAGCTAGATTACAGTAGCTTGGTATTACAGTA",
	}
	for _, seq := range seqs {
		in := []byte(seq)
		if got := RevComp(RevComp(in)); !bytes.Equal(got, in) {
			t.Errorf("RevComp(RevComp(%s)) = %s, want the input back", seq, got)
		}
	}
}

func TestRevCompLeavesInputAlone(t *testing.T) {
	in := []byte("ACGTT")
	RevComp(in)
	if string(in) != "ACGTT" {
		t.Errorf("RevComp modified its input: %s", in)
	}
}
