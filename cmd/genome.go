package cmd

import (
	"math"

	"github.com/aydun1/TUSCAN/internal/tuscan"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// genomeCmd is for scanning a genome for target sites and scoring all of them
var genomeCmd = &cobra.Command{
	Use:                        "genome",
	Short:                      "Scan a genome for Cas9 target sites and score them",
	Run:                        tuscan.GenomeCmd,
	SuggestionsMinimumDistance: 2,
	Long: `
Scan every record of the input FASTA, on both strands, for targetable
sites: a 20 nt protospacer followed by an NGG PAM. Each site is encoded
and scored with the trained model for the chosen mode and written to a
column aligned report.

A BED file (-b) restricts the scan to its intervals. Reported
coordinates are 1-based and inclusive, relative to the reference record
named in the BED line.`,
}

// set flags
func init() {
	RootCmd.AddCommand(genomeCmd)

	genomeCmd.Flags().StringP("in", "i", "", "input genome <FASTA, optionally gzipped>")
	genomeCmd.Flags().StringP("bed", "b", "", "BED file with intervals to restrict the scan to")
	genomeCmd.Flags().StringP("mode", "m", "", "model to score with [Regression|Classification]")
	genomeCmd.Flags().StringP("out", "o", "", "output report name (default "+tuscan.DefaultOutput+")")
	genomeCmd.Flags().String("db", "", "SQLite database to also record sites into")
	genomeCmd.Flags().IntP("threads", "t", 0, "scoring workers (default one per CPU)")
	genomeCmd.Flags().Float64("min-score", math.Inf(-1), "leave sites scoring below this out of the report")

	viper.BindPFlag("threads", genomeCmd.Flags().Lookup("threads"))
	viper.BindPFlag("min-score", genomeCmd.Flags().Lookup("min-score"))
}
