// Package csvstats marshals a [congsim.Statistics] snapshot into CSV,
// one row per flow, suitable for loading into a spreadsheet or plotting
// tool.
package csvstats

import (
	"io"

	"github.com/bassosimone/congsim"
	"github.com/gocarina/gocsv"
)

// Row is one flow's statistics, tagged for [gocsv.Marshal].
type Row struct {
	Name                   string  `csv:"name"`
	BytesDelivered         int     `csv:"bytes_delivered"`
	BytesTransmitted       int     `csv:"bytes_transmitted"`
	BytesRetransmitted     int     `csv:"bytes_retransmitted"`
	RetransmissionRatio    float64 `csv:"retransmission_ratio"`
	Timeouts               int     `csv:"timeouts"`
	ThroughputBytesPerTick float64 `csv:"throughput_bytes_per_tick"`
}

// Write marshals stats to w as CSV, one row per flow.
func Write(w io.Writer, stats congsim.Statistics) error {
	rows := make([]*Row, 0, len(stats.Flows))
	for _, f := range stats.Flows {
		rows = append(rows, &Row{
			Name:                   f.Name,
			BytesDelivered:         f.BytesDelivered,
			BytesTransmitted:       f.BytesTransmitted,
			BytesRetransmitted:     f.BytesRetransmitted,
			RetransmissionRatio:    f.RetransmissionRatio,
			Timeouts:               f.Timeouts,
			ThroughputBytesPerTick: f.ThroughputBytesPerTick,
		})
	}
	return gocsv.Marshal(rows, w)
}
