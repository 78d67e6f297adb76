package tuscan

import (
	"errors"
	"strings"
	"testing"
)

// collect runs scanWindows and gathers every emitted offset.
func collect(t *testing.T, seq string) []int {
	t.Helper()

	var offsets []int
	err := scanWindows([]byte(seq), func(offset int, window []byte) error {
		if len(window) != WindowLen {
			t.Fatalf("window at %d is %d long, want %d", offset, len(window), WindowLen)
		}
		if window[anchorFirst] != 'G' || window[anchorSecond] != 'G' {
			t.Fatalf("window at %d lacks the GG anchor: %s", offset, window)
		}
		offsets = append(offsets, offset)
		return nil
	})
	if err != nil {
		t.Fatalf("scanWindows() error = %v", err)
	}
	return offsets
}

func TestScanWindows(t *testing.T) {
	type args struct {
		seq string
	}
	tests := []struct {
		name string
		args args
		want []int
	}{
		{
			"single window",
			args{strings.Repeat("A", 25) + "GGA"},
			[]int{0},
		},
		{
			"overlapping anchors",
			args{strings.Repeat("A", 25) + "GG" + "A" + "GG" + "AAA"},
			[]int{0, 3},
		},
		{
			"every position matches on poly-G",
			args{strings.Repeat("G", 30)},
			[]int{0, 1, 2},
		},
		{
			"too short",
			args{strings.Repeat("A", 25) + "GG"},
			nil,
		},
		{
			"no anchor",
			args{strings.Repeat("A", 50)},
			nil,
		},
		{
			"N suppresses the windows spanning it",
			args{strings.Repeat("G", 20) + "N" + strings.Repeat("G", 40)},
			[]int{21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33},
		},
		{
			"lowercase is not scanned",
			args{strings.Repeat("a", 25) + "gga"},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, tt.args.seq)
			if len(got) != len(tt.want) {
				t.Fatalf("scanWindows() found offsets %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("scanWindows() offset[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestScanWindowsAscending(t *testing.T) {
	offsets := collect(t, strings.Repeat("G", 200))
	for i := 1; i < len(offsets); i++ {
		if offsets[i] <= offsets[i-1] {
			t.Fatalf("offsets out of order: %d after %d", offsets[i], offsets[i-1])
		}
	}
	if want := 200 - WindowLen + 1; len(offsets) != want {
		t.Errorf("scanWindows() found %d windows, want %d", len(offsets), want)
	}
}

func TestScanWindowsEmitError(t *testing.T) {
	want := errors.New("stop")
	calls := 0
	err := scanWindows([]byte(strings.Repeat("G", 40)), func(int, []byte) error {
		calls++
		return want
	})
	if !errors.Is(err, want) {
		t.Errorf("scanWindows() error = %v, want %v", err, want)
	}
	if calls != 1 {
		t.Errorf("emit called %d times after erroring, want 1", calls)
	}
}
