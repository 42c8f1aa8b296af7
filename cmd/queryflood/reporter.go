package main

import (
	"fmt"
	"io"
	"time"

	"github.com/markdingo/queryflood/internal/engine"
)

//////////////////////////////////////////////////////////////////////
// End-of-run statistics block
//////////////////////////////////////////////////////////////////////

// printStatistics emits the aggregate results of the run. The shape of this block is part of the
// tool's output contract. Percentages and rates are guarded: a run that sent nothing reports zero
// across the board with the start time falling back to program start.
func printStatistics(out io.Writer, cfg *config, st engine.Stats) {
	perLost := 0.0
	perCompleted := 0.0
	if st.Completed != 0 {
		perLost = 100.0 * float64(st.TimedOut) / float64(st.Sent)
		perCompleted = 100.0 - perLost
	}

	start := st.ProgramStart
	runTime := 0.0
	qps := 0.0
	if st.Sent != 0 {
		start = st.FirstQuery
		runTime = st.EndOfRun.Sub(st.FirstQuery).Seconds()
		if runTime > 0 {
			qps = float64(st.Completed) / runTime
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Statistics:")
	fmt.Fprintln(out)

	mode := "multiple times"
	if cfg.runOnce {
		mode = "once"
	}
	fmt.Fprintf(out, "  Parse input file:     %s\n", mode)
	if cfg.timeLimit > 0 {
		fmt.Fprintf(out, "  Run time limit:       %d seconds\n", cfg.timeLimit)
	}
	if !cfg.runOnce {
		fmt.Fprintf(out, "  Ran through file:     %d times\n", st.RunsThroughFile)
	} else {
		reason := "end of file"
		if st.RunsThroughFile == 0 {
			reason = "time limit"
		}
		fmt.Fprintf(out, "  Ended due to:         reaching %s\n", reason)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Queries sent:         %d queries\n", st.Sent)
	fmt.Fprintf(out, "  Queries completed:    %d queries\n", st.Completed)
	fmt.Fprintf(out, "  Queries lost:         %d queries\n", st.TimedOut)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Percentage completed: %6.2f%%\n", perCompleted)
	fmt.Fprintf(out, "  Percentage lost:      %6.2f%%\n", perLost)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Started at:           %s\n", start.Format(time.ANSIC))
	fmt.Fprintf(out, "  Finished at:          %s\n", st.EndOfRun.Format(time.ANSIC))
	fmt.Fprintf(out, "  Ran for:              %.6f seconds\n", runTime)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Queries per second:   %.6f qps\n", qps)

	if st.Latency != nil && st.Latency.TotalCount() > 0 {
		ms := func(us int64) float64 { return float64(us) / 1000.0 }
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  Latency min/avg/max:  %.3f/%.3f/%.3f ms\n",
			ms(st.Latency.Min()), st.Latency.Mean()/1000.0, ms(st.Latency.Max()))
		fmt.Fprintf(out, "  Latency p50/p95/p99:  %.3f/%.3f/%.3f ms\n",
			ms(st.Latency.ValueAtQuantile(50)), ms(st.Latency.ValueAtQuantile(95)),
			ms(st.Latency.ValueAtQuantile(99)))
	}

	fmt.Fprintln(out)
}
