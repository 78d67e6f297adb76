package tuscan

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aydun1/TUSCAN/config"
)

func colIndex(t *testing.T, header []string, name string) int {
	t.Helper()

	for i, col := range header {
		if col == name {
			return i
		}
	}
	t.Fatalf("no %s column", name)
	return -1
}

func TestMatrixHeader(t *testing.T) {
	header := matrixHeader(false)
	if len(header) != 582 {
		t.Errorf("header has %d columns, want 582", len(header))
	}
	if got := strings.Join(header[:6], " "); got != "Name GC% A C G T" {
		t.Errorf("composition block = %v", got)
	}
	if header[6] != "A1" || header[len(header)-1] != "TGGT" {
		t.Errorf("header runs %s..%s, want A1..TGGT", header[6], header[len(header)-1])
	}

	withAct := matrixHeader(true)
	if len(withAct) != 583 {
		t.Errorf("header with activity has %d columns, want 583", len(withAct))
	}
	if withAct[6] != "Activity" || withAct[7] != "A1" {
		t.Errorf("activity column misplaced: %v", withAct[5:9])
	}
}

func TestMatrixRow(t *testing.T) {
	header := matrixHeader(false)
	row := matrixRow("g1", []byte(refWindow))
	if len(row) != len(header) {
		t.Fatalf("row has %d columns, header %d", len(row), len(header))
	}

	tests := []struct {
		col  string
		want string
	}{
		{"Name", "g1"},
		{"GC%", "39.29"},
		{"A", "8"},
		{"C", "4"},
		{"G", "7"},
		{"T", "9"},
		{"A4", "1"}, // window[3] is A
		{"T4", "0"},
		{"G27", "1"}, // second anchor G
		{"TA1", "1"}, // window opens TA
		{"GG26", "1"},
		{"GG", "1"}, // one GG pair, the anchor
		{"TA", "5"},
		{"TGGT", "1"}, // PAM context N=T, downstream T
		{"AGGA", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.col, func(t *testing.T) {
			if got := row[colIndex(t, header, tt.col)]; got != tt.want {
				t.Errorf("%s = %s, want %s", tt.col, got, tt.want)
			}
		})
	}
}

func TestWriteMatrix(t *testing.T) {
	seqs := []namedSeq{
		{name: "g1", seq: []byte(refWindow)},
		{name: "g2", seq: []byte("ACGT")}, // skipped, too short
		{name: "g3", seq: []byte("ACCAAAAAAAAAAAAAAAAAAAAAAAAT")},
	}
	activities := map[string]string{"g1": "0.8"}

	var buf bytes.Buffer
	count, err := writeMatrix(&buf, seqs, activities)
	if err != nil {
		t.Fatalf("writeMatrix() error = %v", err)
	}
	if count != 2 {
		t.Errorf("writeMatrix() = %d rows, want 2", count)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("matrix has %d lines, want 3", len(lines))
	}

	header := strings.Fields(lines[0])
	if len(header) != 583 {
		t.Fatalf("header has %d columns, want 583", len(header))
	}
	act := colIndex(t, header, "Activity")

	g1 := strings.Fields(lines[1])
	if len(g1) != len(header) {
		t.Fatalf("g1 row has %d columns, header %d", len(g1), len(header))
	}
	if g1[0] != "g1" || g1[act] != "0.8" {
		t.Errorf("g1 row opens %s with activity %s", g1[0], g1[act])
	}

	// g3 has no measured activity and was flipped into the anchor's
	// orientation, so position 1 is A
	g3 := strings.Fields(lines[2])
	if g3[0] != "g3" || g3[act] != "NA" {
		t.Errorf("g3 row opens %s with activity %s", g3[0], g3[act])
	}
	if got := g3[colIndex(t, header, "A1")]; got != "1" {
		t.Errorf("g3 A1 = %s, want 1", got)
	}
}

// TestMatrix runs the command end to end with an activity BED.
func TestMatrix(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "windows.txt", []byte(refWindow+"\n"))
	writeFile(t, dir, "activity.bed", []byte("chr1\t0\t28\tseq1\t0.9\n"))

	flags := &Flags{in: in, activity: filepath.Join(dir, "activity.bed")}
	Matrix(flags, &config.Config{})

	out := filepath.Join(dir, "windows_matrix.txt")
	lines := strings.Split(strings.TrimRight(readTestFile(t, out), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("matrix has %d lines, want 2:\n%s", len(lines), strings.Join(lines, "\n"))
	}

	header := strings.Fields(lines[0])
	row := strings.Fields(lines[1])
	if row[0] != "seq1" {
		t.Errorf("row names %s, want seq1", row[0])
	}
	if got := row[colIndex(t, header, "Activity")]; got != "0.9" {
		t.Errorf("Activity = %s, want 0.9", got)
	}
}
