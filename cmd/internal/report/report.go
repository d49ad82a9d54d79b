// Package report prints a [congsim.Statistics] snapshot to the console.
package report

import (
	"fmt"
	"io"

	"github.com/bassosimone/congsim"
)

// Print writes a human-readable summary of stats to w.
func Print(w io.Writer, stats congsim.Statistics) {
	fmt.Fprintf(w, "ticks: %d\n", stats.Ticks)
	fmt.Fprintf(w, "router queue drops: %d\n", stats.TotalPacketsDropped)
	for i, dropped := range stats.RoutersDropped {
		fmt.Fprintf(w, "  router%d: %d packets dropped\n", i, dropped)
	}
	fmt.Fprintln(w)

	for _, f := range stats.Flows {
		fmt.Fprintf(w, "%s:\n", f.Name)
		fmt.Fprintf(w, "  bytes delivered:     %d\n", f.BytesDelivered)
		fmt.Fprintf(w, "  bytes transmitted:   %d\n", f.BytesTransmitted)
		fmt.Fprintf(w, "  bytes retransmitted: %d (%.2f%%)\n", f.BytesRetransmitted, 100*f.RetransmissionRatio)
		fmt.Fprintf(w, "  timeouts:            %d\n", f.Timeouts)
		fmt.Fprintf(w, "  throughput:          %.2f bytes/tick\n", f.ThroughputBytesPerTick)
	}

	if len(stats.Flows) > 1 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "fairness across %d flows: mean=%.2f stddev=%.2f bytes/tick\n",
			len(stats.Flows), stats.MeanThroughput, stats.StdDevThroughput)
	}
}
