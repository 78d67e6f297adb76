package tuscan

import (
	"bufio"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// report column layout, fixed width so reports line up under a pager
const (
	reportHeader = "%-24s %-12s %-12s %-8s %-30s %s\n"
	reportRow    = "%-24s %-12d %-12d %-8c %-30s %.4f\n"
)

// reportWriter streams sites into a column aligned text report. Sites
// are written as they arrive, never buffered as a set.
type reportWriter struct {
	w     *bufio.Writer
	f     *os.File // nil when writing to a caller's stream
	count int
}

// newReportWriter creates the report at path, or wraps w when path is
// empty, and writes the header line.
func newReportWriter(path string, w io.Writer) (*reportWriter, error) {
	rw := &reportWriter{}
	if path == "" {
		rw.w = bufio.NewWriter(w)
	} else {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create output: %w", err)
		}
		rw.f = f
		rw.w = bufio.NewWriter(f)
	}

	if _, err := fmt.Fprintf(rw.w, reportHeader, "Chromosome", "Start", "End", "Strand", "Sequence", "Score"); err != nil {
		return nil, err
	}
	return rw, nil
}

func (rw *reportWriter) Write(s Site) error {
	rw.count++
	_, err := fmt.Fprintf(rw.w, reportRow, s.Chrom, s.Start, s.End, s.Strand, s.Seq, s.Score)
	return err
}

func (rw *reportWriter) Close() error {
	if err := rw.w.Flush(); err != nil {
		return err
	}
	if rw.f != nil {
		return rw.f.Close()
	}
	return nil
}

const dbSchema = `
CREATE TABLE IF NOT EXISTS scan_runs (
	id      TEXT PRIMARY KEY,
	started TEXT NOT NULL,
	mode    TEXT NOT NULL,
	source  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sites (
	run_id      TEXT NOT NULL REFERENCES scan_runs (id),
	chrom       TEXT NOT NULL,
	chrom_start INTEGER NOT NULL,
	chrom_end   INTEGER NOT NULL,
	strand      TEXT NOT NULL,
	sequence    TEXT NOT NULL,
	score       REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS sites_run ON sites (run_id, chrom, chrom_start);
`

// dbWriter records sites into a SQLite database so runs can be queried
// later without reparsing reports. Inserts run inside a transaction that
// Flush commits after each scanned region.
type dbWriter struct {
	db    *sql.DB
	tx    *sql.Tx
	ins   *sql.Stmt
	runID string
}

// newDBWriter opens (creating as needed) the database at path and
// registers a run row keyed by a fresh UUID.
func newDBWriter(path, source string, mode Mode) (*dbWriter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db %s: %w", path, err)
	}
	if _, err := db.Exec(dbSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare db schema: %w", err)
	}

	w := &dbWriter{db: db, runID: uuid.NewString()}
	if _, err := db.Exec(
		"INSERT INTO scan_runs (id, started, mode, source) VALUES (?, ?, ?, ?)",
		w.runID, time.Now().Format(time.RFC3339), mode.String(), source,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	if err := w.begin(); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

func (w *dbWriter) begin() error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	ins, err := tx.Prepare(
		"INSERT INTO sites (run_id, chrom, chrom_start, chrom_end, strand, sequence, score) VALUES (?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare site insert: %w", err)
	}

	w.tx, w.ins = tx, ins
	return nil
}

func (w *dbWriter) Write(s Site) error {
	_, err := w.ins.Exec(w.runID, s.Chrom, s.Start, s.End, string(s.Strand), s.Seq, s.Score)
	return err
}

// Flush commits the open transaction and starts the next one.
func (w *dbWriter) Flush() error {
	w.ins.Close()
	if err := w.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sites: %w", err)
	}
	return w.begin()
}

// Close commits whatever is pending and closes the database.
func (w *dbWriter) Close() error {
	w.ins.Close()
	if err := w.tx.Commit(); err != nil {
		w.db.Close()
		return fmt.Errorf("failed to commit sites: %w", err)
	}
	return w.db.Close()
}

// abort rolls back the open transaction and closes the database,
// leaving earlier committed regions in place.
func (w *dbWriter) abort() {
	w.ins.Close()
	w.tx.Rollback()
	w.db.Close()
}
