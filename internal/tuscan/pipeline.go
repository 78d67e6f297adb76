package tuscan

import (
	"context"
	"fmt"

	"github.com/aydun1/TUSCAN/config"
)

// Site is one scored target: the 23 nt protospacer + PAM as read on its
// strand, located on the reference.
type Site struct {
	Chrom  string
	Start  int // 1-based, inclusive
	End    int // 1-based, inclusive
	Strand byte
	Seq    string
	Score  float64
}

// workItem is one element on the work queue: either a candidate window
// or the end-of-stream marker telling exactly one worker to finish. A
// tagged variant, so no real candidate can ever be mistaken for
// termination.
type workItem struct {
	offset int
	window []byte
	eos    bool
}

// batchResult carries one scored batch from a worker to the collector.
// done flags a worker's final message, which also reports the error that
// stopped it, if any.
type batchResult struct {
	sites []Site
	err   error
	done  bool
}

// pass is one strand's scan over a region: the oriented sequence plus
// everything needed to map a window offset back to reference
// coordinates.
type pass struct {
	chrom  string
	seq    []byte
	strand byte
	mode   Mode
	start  int // 0-based region start on the reference
	length int // forward-strand region length
}

// locate converts a window offset on the scanned strand into the
// 1-based inclusive reference coordinates of the target it contains.
func (p *pass) locate(offset int) (start, end int) {
	if p.strand == '+' {
		start = p.start + offset + targetOffset + 1
	} else {
		start = p.start + p.length - offset - targetOffset - TargetLen + 1
	}
	return start, start + TargetLen - 1
}

// runPass scans one oriented sequence and streams scored sites to emit.
// One producer feeds a bounded queue, conf.Threads workers batch and
// score candidates, and the calling goroutine collects. A completed or
// failed pass leaves no goroutine behind; cancelling ctx tears the
// pass down through the context instead of the done protocol.
//
// Sites arrive at emit in scan order within a batch but in no particular
// order across batches or workers.
func runPass(ctx context.Context, p *pass, model Model, conf *config.Config, emit func(Site) error) error {
	workers := conf.Threads
	if workers < 1 {
		workers = 1
	}

	// twice the worker count: enough for the scan to stay ahead of
	// scoring without buffering a region's worth of candidates
	queue := make(chan workItem, 2*workers)
	results := make(chan batchResult, workers)

	go produce(ctx, p.seq, workers, queue)
	for i := 0; i < workers; i++ {
		go scoreWorker(ctx, p, model, conf.BatchSize, queue, results)
	}

	var failure error
	done := 0
	for done < workers {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r := <-results:
			if r.done {
				done++
			}
			if r.err != nil && failure == nil {
				failure = r.err
			}
			if failure != nil {
				continue // discard everything after the first fault
			}
			for _, s := range r.sites {
				if err := emit(s); err != nil {
					failure = err
					break
				}
			}
		}
	}

	return failure
}

// produce pushes every candidate window onto the queue, then one
// end-of-stream marker per worker so each observes termination exactly
// once.
func produce(ctx context.Context, seq []byte, workers int, queue chan<- workItem) {
	err := scanWindows(seq, func(offset int, window []byte) error {
		select {
		case queue <- workItem{offset: offset, window: window}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if err != nil {
		return // cancelled; workers exit through ctx too
	}

	for i := 0; i < workers; i++ {
		select {
		case queue <- workItem{eos: true}:
		case <-ctx.Done():
			return
		}
	}
}

// scoreWorker batches candidates off the queue and scores each batch
// with a single model call. After a failure it keeps draining the queue
// so the producer is never blocked, then reports the failure on its
// final done message.
func scoreWorker(ctx context.Context, p *pass, model Model, batchSize int, queue <-chan workItem, results chan<- batchResult) {
	if batchSize < 1 {
		batchSize = 1
	}

	var failure error
	offsets := make([]int, 0, batchSize)
	windows := make([][]byte, 0, batchSize)

	flush := func() {
		if len(offsets) == 0 || failure != nil {
			return
		}

		sites, err := scoreBatch(p, model, offsets, windows)
		if err != nil {
			failure = err
			return
		}

		select {
		case results <- batchResult{sites: sites}:
		case <-ctx.Done():
		}
		offsets = offsets[:0]
		windows = windows[:0]
	}

	for {
		var item workItem
		select {
		case item = <-queue:
		case <-ctx.Done():
			return
		}

		if item.eos {
			flush()
			select {
			case results <- batchResult{done: true, err: failure}:
			case <-ctx.Done():
			}
			return
		}

		if failure != nil {
			continue // drain so the producer can finish
		}

		offsets = append(offsets, item.offset)
		windows = append(windows, item.window)
		if len(offsets) == batchSize {
			flush()
		}
	}
}

// scoreBatch encodes and scores one batch. Coordinates are fixed before
// the model call, so a site's provenance never depends on scoring
// internals, and within the batch output order matches input order.
func scoreBatch(p *pass, model Model, offsets []int, windows [][]byte) ([]Site, error) {
	sites := make([]Site, len(offsets))
	rows := make([][]float64, len(offsets))
	for i, offset := range offsets {
		start, end := p.locate(offset)
		sites[i] = Site{
			Chrom:  p.chrom,
			Start:  start,
			End:    end,
			Strand: p.strand,
			Seq:    string(windows[i][targetOffset : targetOffset+TargetLen]),
		}
		rows[i] = Encode(windows[i], p.mode)
	}

	scores, err := model.Predict(rows)
	if err != nil {
		return nil, fmt.Errorf("model failed on a %d candidate batch: %w", len(rows), err)
	}
	if len(scores) != len(rows) {
		return nil, fmt.Errorf("model returned %d scores for %d candidates", len(scores), len(rows))
	}

	for i := range sites {
		sites[i].Score = scores[i]
	}
	return sites, nil
}
