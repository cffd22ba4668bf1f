package backtest

import (
	"runtime"
	"sort"
	"sync"

	"github.com/quantlab/ashare/journal"
	"github.com/quantlab/ashare/market"
)

// BatchItem is one instrument's outcome in a batch. Exactly one of
// Result and Err is set; an error never aborts the rest of the batch.
type BatchItem struct {
	Instrument string
	Result     *Result
	Err        error
}

// RunBatch backtests cfg over every bar set. Runs share nothing, so
// they are spread across workers goroutines (NumCPU when workers <= 0);
// results are merged only after each run completes and come back in
// input order. The journal j may be nil; implementations passed here
// must tolerate concurrent writers or be nil.
func RunBatch(sets []*market.BarSet, cfg Config, workers int, j journal.Journal) []BatchItem {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(sets) {
		workers = len(sets)
	}

	items := make([]BatchItem, len(sets))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				set := sets[i]
				res, err := Run(set, cfg, j)
				items[i] = BatchItem{Instrument: set.Instrument, Result: res, Err: err}
			}
		}()
	}

	for i := range sets {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return items
}

// BatchSummary aggregates the successful runs of a batch.
type BatchSummary struct {
	Completed int
	Skipped   int // ErrInsufficientHistory and other per-instrument failures

	AvgReturnPct float64
	Profitable   int // runs with a positive return

	// Ranked holds successful results ordered by descending return.
	Ranked []*Result
}

// Summarize computes the batch ranking the way the nightly batch
// report presents it: average return, profitable count, and a ranking
// by return.
func Summarize(items []BatchItem) BatchSummary {
	var s BatchSummary
	var sum float64

	for _, it := range items {
		if it.Err != nil || it.Result == nil {
			s.Skipped++
			continue
		}
		s.Completed++
		sum += it.Result.ReturnPct
		if it.Result.ReturnPct > 0 {
			s.Profitable++
		}
		s.Ranked = append(s.Ranked, it.Result)
	}

	if s.Completed > 0 {
		s.AvgReturnPct = sum / float64(s.Completed)
	}
	sort.SliceStable(s.Ranked, func(a, b int) bool {
		return s.Ranked[a].ReturnPct > s.Ranked[b].ReturnPct
	})
	return s
}
