package cmd

import (
	"github.com/aydun1/TUSCAN/internal/tuscan"
	"github.com/spf13/cobra"
)

// scoreCmd is for scoring a file of pre-extracted candidate windows
var scoreCmd = &cobra.Command{
	Use:                        "score",
	Short:                      "Score candidate windows from a file",
	Run:                        tuscan.ScoreCmd,
	SuggestionsMinimumDistance: 2,
	Long: `
Score 28 nt candidate windows listed in a file, FASTA or one sequence
per line. Windows whose GG anchor only fits on the opposite strand are
flipped to their reverse complement and flagged '-'; sequences that can
never be targets are diagnosed to stderr and skipped.

The report goes to stdout unless -o names a file.`,
}

// set flags
func init() {
	RootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("in", "i", "", "input windows <FASTA or one sequence per line>")
	scoreCmd.Flags().StringP("mode", "m", "", "model to score with [Regression|Classification]")
	scoreCmd.Flags().StringP("out", "o", "", "output report name (default stdout)")
}
