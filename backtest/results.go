package backtest

import (
	"fmt"
	"io"
)

// PrintResult writes a plain-text run report to w.
func PrintResult(w io.Writer, r *Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Instrument:    %s\n", r.Instrument)
	fmt.Fprintf(w, "Signal:        %s\n", r.Signal)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start:         %s\n", r.Start.Format("2006-01-02"))
	fmt.Fprintf(w, "End:           %s\n", r.End.Format("2006-01-02"))
	fmt.Fprintf(w, "Bars:          %d\n", len(r.curve))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Round Trips:   %d\n", r.Trades)
	fmt.Fprintf(w, "Wins:          %d\n", r.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", r.Losses)
	if r.Trades > 0 {
		fmt.Fprintf(w, "Win Rate:      %.2f%%\n", float64(r.Wins)/float64(r.Trades)*100)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Initial Cash:  %.2f\n", r.InitialCash)
	fmt.Fprintf(w, "Final Equity:  %.2f\n", r.FinalEquity)
	fmt.Fprintf(w, "Return:        %+.2f%%\n", r.ReturnPct)
	if dd := MaxDrawdownPct(r); dd > 0 {
		fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", dd)
	}

	fmt.Fprintln(w)
}

// PrintBatchSummary writes the batch ranking report to w.
func PrintBatchSummary(w io.Writer, s BatchSummary, topN int) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Batch Summary")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Completed:     %d\n", s.Completed)
	fmt.Fprintf(w, "Skipped:       %d\n", s.Skipped)
	if s.Completed == 0 {
		return
	}
	fmt.Fprintf(w, "Avg Return:    %+.2f%%\n", s.AvgReturnPct)
	fmt.Fprintf(w, "Profitable:    %d/%d\n", s.Profitable, s.Completed)

	if topN > len(s.Ranked) {
		topN = len(s.Ranked)
	}
	if topN > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Top %d by return\n", topN)
		fmt.Fprintln(w, "--------------------------------------------------")
		for i, r := range s.Ranked[:topN] {
			fmt.Fprintf(w, "%2d. %-10s %+8.2f%%  (%d trades)\n",
				i+1, r.Instrument, r.ReturnPct, r.Trades)
		}
	}
	fmt.Fprintln(w)
}

// MaxDrawdownPct returns the largest peak-to-trough equity decline of
// the run, in percent.
func MaxDrawdownPct(r *Result) float64 {
	var peak, maxDD float64
	for _, p := range r.curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			dd := (peak - p.Equity) / peak * 100
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
