package tuscan

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aydun1/TUSCAN/config"
	"github.com/aydun1/TUSCAN/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var bases = []byte("ACGT")

// MatrixCmd takes a cobra command (with its flags) and runs Matrix.
func MatrixCmd(cmd *cobra.Command, args []string) {
	Matrix(parseCmdFlags(cmd, args, false))
}

// Matrix writes the full feature universe for every input window: the
// encoder's source feature space before per-model selection, one space
// separated row per sequence. Model training starts from this file.
func Matrix(flags *Flags, conf *config.Config) {
	seqs, err := readSeqList(flags.in)
	if err != nil {
		stderr.Fatalln(err)
	}

	var activities map[string]string
	if flags.activity != "" {
		ivs, err := readBed(flags.activity)
		if err != nil {
			stderr.Fatalln(err)
		}
		activities = make(map[string]string, len(ivs))
		for _, iv := range ivs {
			if iv.name != "" {
				activities[iv.name] = iv.score
			}
		}
	}

	out := flags.out
	if out == "" {
		p := inputParser{}
		out = p.guessOutput(flags.in, "_matrix.txt")
	}

	f, err := os.Create(out)
	if err != nil {
		stderr.Fatalln(fmt.Errorf("failed to create output: %w", err))
	}
	count, err := writeMatrix(f, seqs, activities)
	if err != nil {
		f.Close()
		stderr.Fatalln(err)
	}
	if err := f.Close(); err != nil {
		stderr.Fatalln(err)
	}

	logger.Info("wrote feature matrix", zap.String("out", out), zap.Int("sequences", count))
}

// writeMatrix emits the header and one row per scoreable sequence.
func writeMatrix(w io.Writer, seqs []namedSeq, activities map[string]string) (int, error) {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, strings.Join(matrixHeader(activities != nil), " ")); err != nil {
		return 0, err
	}

	count := 0
	for _, ns := range seqs {
		window, _, reason := orientWindow(ns.seq)
		if reason != "" {
			stderr.Printf("skipping %s: %s", ns.name, reason)
			continue
		}

		row := matrixRow(ns.name, window)
		if activities != nil {
			activity, ok := activities[ns.name]
			if !ok {
				activity = "NA"
			}
			// the Activity column sits right after the composition block
			withAct := make([]string, 0, len(row)+1)
			withAct = append(withAct, row[:6]...)
			withAct = append(withAct, activity)
			withAct = append(withAct, row[6:]...)
			row = withAct
		}

		if _, err := fmt.Fprintln(bw, strings.Join(row, " ")); err != nil {
			return 0, err
		}
		count++
	}

	return count, bw.Flush()
}

// matrixHeader returns the full feature universe column names: window
// composition, every nucleotide at every position, every dinucleotide
// at every position, dinucleotide counts and the NGGN PAM context.
func matrixHeader(withActivity bool) []string {
	cols := []string{"Name", "GC%", "A", "C", "G", "T"}
	if withActivity {
		cols = append(cols, "Activity")
	}

	for pos := 1; pos <= WindowLen; pos++ {
		for _, b := range bases {
			cols = append(cols, string(b)+strconv.Itoa(pos))
		}
	}
	for pos := 1; pos < WindowLen; pos++ {
		for _, di := range diAll {
			cols = append(cols, di+strconv.Itoa(pos))
		}
	}
	cols = append(cols, diAll...)
	for _, b1 := range bases {
		for _, b2 := range bases {
			cols = append(cols, string(b1)+"GG"+string(b2))
		}
	}

	return cols
}

// matrixRow builds one row of the matrix, aligned with matrixHeader
// without its Activity column.
func matrixRow(name string, window []byte) []string {
	var counts [4]int
	gc := 0
	for _, b := range window {
		counts[baseIndex[b]]++
		if b == 'C' || b == 'G' {
			gc++
		}
	}
	pct := 100 * float64(gc) / WindowLen

	row := make([]string, 0, 6+4*WindowLen+16*(WindowLen-1)+16+16)
	row = append(row, name, strconv.FormatFloat(pct, 'f', 2, 64))
	for _, c := range counts {
		row = append(row, strconv.Itoa(c))
	}

	for pos := 0; pos < WindowLen; pos++ {
		for _, b := range bases {
			row = append(row, boolCol(window[pos] == b))
		}
	}

	diCounts := make(map[string]int, 16)
	for pos := 0; pos < WindowLen-1; pos++ {
		di := string(window[pos : pos+2])
		diCounts[di]++
		for _, want := range diAll {
			row = append(row, boolCol(di == want))
		}
	}
	for _, di := range diAll {
		row = append(row, strconv.Itoa(diCounts[di]))
	}

	for _, b1 := range bases {
		for _, b2 := range bases {
			row = append(row, boolCol(window[WindowLen-4] == b1 && window[WindowLen-1] == b2))
		}
	}

	return row
}

func boolCol(set bool) string {
	if set {
		return "1"
	}
	return "0"
}
