package tuscan

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aydun1/TUSCAN/config"
	"github.com/aydun1/TUSCAN/logger"
	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// stderr is for logging to Stderr (without an annoying timestamp)
	stderr = log.New(os.Stderr, "", 0)
)

// Flags contains parsed cobra Flags like "in", "out", "mode", etc that
// are used by the scanning commands.
type Flags struct {
	// the name of the file to read the input from
	in string

	// the name of the file to write the output to
	out string

	// an optional BED file restricting the scan to its intervals
	bed string

	// an optional SQLite database that sites are also recorded into
	db string

	// an optional BED file of measured activities for matrix output
	activity string

	// which trained model to score with
	mode Mode
}

// inputParser contains methods for parsing flags from the input &cobra.Command.
type inputParser struct{}

// parseCmdFlags gathers the in path, out path, mode etc from a cobra
// cmd object. Returns Flags and a Config for tuscan.Genome et al.
func parseCmdFlags(cmd *cobra.Command, args []string, needMode bool) (*Flags, *config.Config) {
	var err error
	fs := &Flags{} // parsed flags
	p := inputParser{}
	c := config.New()

	if fs.in, err = cmd.Flags().GetString("in"); fs.in == "" || err != nil {
		if len(args) > 0 {
			fs.in = args[0]
		} else if fs.in, err = p.guessInput(); err != nil {
			cmd.Help()
			stderr.Fatal(err)
		}
	}

	fs.out, _ = cmd.Flags().GetString("out")
	fs.bed, _ = cmd.Flags().GetString("bed")
	fs.db, _ = cmd.Flags().GetString("db")
	fs.activity, _ = cmd.Flags().GetString("activity")

	if needMode {
		modeName, err := cmd.Flags().GetString("mode")
		if err != nil || modeName == "" {
			cmd.Help()
			stderr.Fatalln("no mode passed [-m]: expected Regression or Classification")
		}
		if fs.mode, err = ParseMode(modeName); err != nil {
			cmd.Help()
			stderr.Fatal(err)
		}
	}

	return fs, c
}

// guessInput returns the first fasta file in the current directory. Is
// used if the user hasn't specified an input file.
func (p *inputParser) guessInput() (in string, err error) {
	dir, _ := filepath.Abs(".")
	files, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(file.Name()))
		if ext == ".fa" || ext == ".fasta" {
			return file.Name(), nil
		}
	}

	return "", fmt.Errorf("failed: no input argument set and no fasta file found in %s", dir)
}

// guessOutput gets an output path from an input path (if no output path
// is specified). It uses the same name as the input path to create an
// output.
func (p *inputParser) guessOutput(in, suffix string) (out string) {
	if strings.HasSuffix(strings.ToLower(in), ".gz") {
		in = in[:len(in)-len(".gz")]
	}
	ext := filepath.Ext(in)
	return in[:len(in)-len(ext)] + suffix
}

// Region is a stretch of reference sequence to scan.
type Region struct {
	// Chrom is the name of the reference record the region came from
	Chrom string

	// Start is the region's 0-based offset on the reference
	Start int

	// Seq holds the region's forward strand, uppercased
	Seq []byte
}

// openInput opens a possibly gzipped file for reading.
func openInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open gzip %s: %w", path, err)
		}
		return &gzipReadCloser{gz: gz, f: f}, nil
	}

	return f, nil
}

// gzipReadCloser closes the gzip stream and the file underneath it.
type gzipReadCloser struct {
	gz *gzip.Reader
	f  *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipReadCloser) Close() error {
	if err := g.gz.Close(); err != nil {
		g.f.Close()
		return err
	}
	return g.f.Close()
}

// readFasta reads every record of a FASTA file into whole-record
// Regions.
func readFasta(path string) ([]Region, error) {
	r, err := openInput(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer r.Close()

	return parseFasta(r, path)
}

// parseFasta decodes FASTA records from r. The redundant DNA alphabet is
// used so records carrying ambiguity codes parse; the scanner skips
// those positions later.
func parseFasta(r io.Reader, path string) ([]Region, error) {
	in := fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNAredundant))

	var regions []Region
	for {
		s, err := in.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		l := s.(*linear.Seq)
		regions = append(regions, Region{
			Chrom: l.Name(),
			Seq:   bytes.ToUpper(alphabet.LettersToBytes(l.Seq)),
		})
	}

	if len(regions) < 1 {
		return nil, fmt.Errorf("failed to parse any sequence records from %s", path)
	}
	return regions, nil
}

// bedInterval is one row of a BED file.
type bedInterval struct {
	chrom string
	start int // 0-based
	end   int // half-open
	name  string
	score string
}

// readBed parses the leading columns of a BED file. Track, browser and
// comment lines are skipped.
func readBed(path string) ([]bedInterval, error) {
	r, err := openInput(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer r.Close()

	var ivs []bedInterval
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") ||
			strings.HasPrefix(text, "track") || strings.HasPrefix(text, "browser") {
			continue
		}

		cols := strings.Fields(text)
		if len(cols) < 3 {
			return nil, fmt.Errorf("%s:%d: expected at least 3 BED columns, found %d", path, line, len(cols))
		}

		start, err := strconv.Atoi(cols[1])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: bad start %q", path, line, cols[1])
		}
		end, err := strconv.Atoi(cols[2])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: bad end %q", path, line, cols[2])
		}
		if end < start {
			return nil, fmt.Errorf("%s:%d: end %d before start %d", path, line, end, start)
		}

		iv := bedInterval{chrom: cols[0], start: start, end: end}
		if len(cols) > 3 {
			iv.name = cols[3]
		}
		if len(cols) > 4 {
			iv.score = cols[4]
		}
		ivs = append(ivs, iv)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return ivs, nil
}

// loadRegions reads the scan targets: whole FASTA records, or BED
// intervals sliced out of them when a BED path was passed. Intervals
// running past a record's end are clamped.
func loadRegions(fastaPath, bedPath string) ([]Region, error) {
	records, err := readFasta(fastaPath)
	if err != nil {
		return nil, err
	}

	if bedPath == "" {
		return records, nil
	}

	byName := make(map[string][]byte, len(records))
	for _, r := range records {
		byName[r.Chrom] = r.Seq
	}

	ivs, err := readBed(bedPath)
	if err != nil {
		return nil, err
	}

	var regions []Region
	for _, iv := range ivs {
		seq, ok := byName[iv.chrom]
		if !ok {
			return nil, fmt.Errorf("BED interval %s:%d-%d references a record missing from %s", iv.chrom, iv.start, iv.end, fastaPath)
		}

		start, end := iv.start, iv.end
		if start < 0 {
			start = 0
		}
		if end > len(seq) {
			logger.Warn("clamping BED interval to record end",
				zap.String("chrom", iv.chrom),
				zap.Int("end", iv.end),
				zap.Int("record", len(seq)),
			)
			end = len(seq)
		}

		regions = append(regions, Region{Chrom: iv.chrom, Start: start, Seq: seq[start:end]})
	}

	return regions, nil
}

// namedSeq is one input sequence from a list or FASTA file.
type namedSeq struct {
	name string
	seq  []byte
}

// readSeqList reads candidate windows from FASTA, or from plain text
// with one sequence per line.
func readSeqList(path string) ([]namedSeq, error) {
	r, err := openInput(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer r.Close()

	br := bufio.NewReader(r)
	first, err := br.Peek(1)
	if err != nil {
		return nil, fmt.Errorf("failed to read any sequences from %s", path)
	}

	if first[0] == '>' {
		regions, err := parseFasta(br, path)
		if err != nil {
			return nil, err
		}
		seqs := make([]namedSeq, len(regions))
		for i, r := range regions {
			seqs[i] = namedSeq{name: r.Chrom, seq: r.Seq}
		}
		return seqs, nil
	}

	var seqs []namedSeq
	scanner := bufio.NewScanner(br)
	n := 0
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		n++
		seqs = append(seqs, namedSeq{
			name: "seq" + strconv.Itoa(n),
			seq:  bytes.ToUpper([]byte(text)),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if len(seqs) < 1 {
		return nil, fmt.Errorf("failed to read any sequences from %s", path)
	}
	return seqs, nil
}
