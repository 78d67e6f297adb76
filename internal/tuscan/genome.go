package tuscan

import (
	"context"
	"fmt"
	"time"

	"github.com/aydun1/TUSCAN/config"
	"github.com/aydun1/TUSCAN/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// DefaultOutput is the report name used when genome gets no output flag.
const DefaultOutput = "tuscan_output.txt"

// GenomeCmd takes a cobra command (with its flags) and runs Genome.
func GenomeCmd(cmd *cobra.Command, args []string) {
	Genome(parseCmdFlags(cmd, args, true))
}

// Genome scans every region of the input on both strands and writes the
// scored sites. Returns the number of sites written.
func Genome(flags *Flags, conf *config.Config) int {
	start := time.Now()

	model, err := LoadModel(conf.ModelDir, flags.mode)
	if err != nil {
		stderr.Fatalln(err)
	}

	regions, err := loadRegions(flags.in, flags.bed)
	if err != nil {
		stderr.Fatalln(err)
	}

	out := flags.out
	if out == "" {
		out = DefaultOutput
	}
	logger.Info("scanning",
		zap.String("in", flags.in),
		zap.String("out", out),
		zap.String("mode", flags.mode.String()),
		zap.Int("regions", len(regions)),
		zap.Int("threads", conf.Threads),
	)

	count, err := scanGenome(context.Background(), regions, flags, conf, model, out)
	if err != nil {
		stderr.Fatalln(err)
	}

	logger.Info("scan finished",
		zap.Int("sites", count),
		zap.Duration("took", time.Since(start)),
	)
	return count
}

// scanGenome runs the two pass scan over every region, streaming sites
// to the report and, when configured, the database.
func scanGenome(ctx context.Context, regions []Region, flags *Flags, conf *config.Config, model Model, out string) (count int, err error) {
	report, err := newReportWriter(out, nil)
	if err != nil {
		return 0, err
	}

	var db *dbWriter
	if flags.db != "" {
		if db, err = newDBWriter(flags.db, flags.in, flags.mode); err != nil {
			report.Close()
			return 0, err
		}
		logger.Info("recording sites", zap.String("db", flags.db), zap.String("run", db.runID))
	}

	emit := func(s Site) error {
		if s.Score < conf.MinScore {
			return nil
		}
		if err := report.Write(s); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		if db != nil {
			if err := db.Write(s); err != nil {
				return fmt.Errorf("failed to record site: %w", err)
			}
		}
		return nil
	}

	for _, region := range regions {
		if err := scanRegion(ctx, region, flags.mode, model, conf, emit); err != nil {
			report.Close()
			if db != nil {
				db.abort()
			}
			return 0, err
		}

		if db != nil {
			if err := db.Flush(); err != nil {
				report.Close()
				db.abort()
				return 0, err
			}
		}
		logger.Debug("region scanned", zap.String("chrom", region.Chrom), zap.Int("length", len(region.Seq)))
	}

	if db != nil {
		if err := db.Close(); err != nil {
			report.Close()
			return 0, err
		}
	}
	if err := report.Close(); err != nil {
		return 0, err
	}

	return report.count, nil
}

// scanRegion scores one region: a full forward pass, then a pass over
// the reverse complement. The forward pass drains completely before the
// reverse pass starts, bounding peak memory and keeping writer lifetime
// simple.
func scanRegion(ctx context.Context, region Region, mode Mode, model Model, conf *config.Config, emit func(Site) error) error {
	fwd := &pass{
		chrom:  region.Chrom,
		seq:    region.Seq,
		strand: '+',
		mode:   mode,
		start:  region.Start,
		length: len(region.Seq),
	}
	if err := runPass(ctx, fwd, model, conf, emit); err != nil {
		return fmt.Errorf("forward scan of %s failed: %w", region.Chrom, err)
	}

	rev := &pass{
		chrom:  region.Chrom,
		seq:    RevComp(region.Seq),
		strand: '-',
		mode:   mode,
		start:  region.Start,
		length: len(region.Seq),
	}
	if err := runPass(ctx, rev, model, conf, emit); err != nil {
		return fmt.Errorf("reverse scan of %s failed: %w", region.Chrom, err)
	}

	return nil
}
