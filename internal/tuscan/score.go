package tuscan

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/aydun1/TUSCAN/config"
	"github.com/spf13/cobra"
)

// ScoreCmd takes a cobra command (with its flags) and runs Score.
func ScoreCmd(cmd *cobra.Command, args []string) {
	Score(parseCmdFlags(cmd, args, true))
}

// Score predicts activity for a file of pre-extracted windows and
// writes one row per scoreable sequence, to stdout unless an output
// path was passed. Returns the number of rows written.
func Score(flags *Flags, conf *config.Config) int {
	model, err := LoadModel(conf.ModelDir, flags.mode)
	if err != nil {
		stderr.Fatalln(err)
	}

	seqs, err := readSeqList(flags.in)
	if err != nil {
		stderr.Fatalln(err)
	}

	count, err := scoreList(seqs, flags.mode, conf.BatchSize, model, flags.out, os.Stdout)
	if err != nil {
		stderr.Fatalln(err)
	}
	return count
}

// listEntry is one scoreable input window, flipped into the anchor's
// orientation.
type listEntry struct {
	name   string
	window []byte
	strand byte
}

// orientWindow validates one input sequence, flipping it to the reverse
// complement when the anchor only fits that way. A non-empty reason
// means the sequence can never be a target and should be skipped.
func orientWindow(seq []byte) (window []byte, strand byte, reason string) {
	if len(seq) != WindowLen {
		return nil, 0, fmt.Sprintf("is %d base pairs, expected %d", len(seq), WindowLen)
	}
	for _, b := range seq {
		if baseIndex[b] < 0 {
			return nil, 0, fmt.Sprintf("contains an invalid nucleotide %q", b)
		}
	}

	if seq[anchorFirst] == 'G' && seq[anchorSecond] == 'G' {
		return seq, '+', ""
	}
	rc := RevComp(seq)
	if rc[anchorFirst] == 'G' && rc[anchorSecond] == 'G' {
		return rc, '-', ""
	}
	return nil, 0, "does not have a PAM motif in either orientation"
}

// scoreList encodes and scores sequences in batches and writes the
// report. Unscoreable sequences are diagnosed to stderr and skipped
// rather than failing the run.
func scoreList(seqs []namedSeq, mode Mode, batchSize int, model Model, out string, stdout io.Writer) (int, error) {
	entries := make([]listEntry, 0, len(seqs))
	for _, ns := range seqs {
		window, strand, reason := orientWindow(ns.seq)
		if reason != "" {
			stderr.Printf("skipping %s: %s", ns.name, reason)
			continue
		}
		if strand == '-' {
			stderr.Printf("%s was in the negative orientation", ns.name)
		}
		entries = append(entries, listEntry{name: ns.name, window: window, strand: strand})
	}

	var w io.Writer = stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return 0, fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%-20s %-30s %-12s %s\n", "Name", "Sequence", "Score", "Strand"); err != nil {
		return 0, err
	}

	if batchSize < 1 {
		batchSize = 1
	}
	for lo := 0; lo < len(entries); lo += batchSize {
		hi := min(lo+batchSize, len(entries))
		batch := entries[lo:hi]

		rows := make([][]float64, len(batch))
		for i, e := range batch {
			rows[i] = Encode(e.window, mode)
		}
		scores, err := model.Predict(rows)
		if err != nil {
			return 0, fmt.Errorf("model failed on a %d candidate batch: %w", len(rows), err)
		}

		for i, e := range batch {
			if _, err := fmt.Fprintf(bw, "%-20s %-30s %-12.4f %c\n", e.name, e.window, scores[i], e.strand); err != nil {
				return 0, err
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return 0, err
	}
	return len(entries), nil
}
