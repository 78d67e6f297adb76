package cmd

import (
	"github.com/aydun1/TUSCAN/internal/tuscan"
	"github.com/spf13/cobra"
)

// matrixCmd is for exporting the full feature matrix used for training
var matrixCmd = &cobra.Command{
	Use:                        "matrix",
	Short:                      "Write the full feature matrix for candidate windows",
	Run:                        tuscan.MatrixCmd,
	SuggestionsMinimumDistance: 2,
	Long: `
Write the complete feature universe for each input window: composition,
every nucleotide and dinucleotide at every position, dinucleotide counts
and the NGGN PAM context, one space separated row per window. Model
training starts from this matrix; scoring uses the per-model subset of
its columns.

Measured activities (-a, a BED file with name and score columns) are
merged in as an Activity column for training.`,
}

// set flags
func init() {
	RootCmd.AddCommand(matrixCmd)

	matrixCmd.Flags().StringP("in", "i", "", "input windows <FASTA or one sequence per line>")
	matrixCmd.Flags().StringP("activity", "a", "", "BED file with measured activities to merge")
	matrixCmd.Flags().StringP("out", "o", "", "output file name (default <in>_matrix.txt)")
}
