package congsim

//
// Statistics: per-flow counters and Cloud-topology fairness aggregation
//

import (
	goStats "github.com/montanaflynn/stats"
)

// FlowStatistics summarizes a single [Flow]'s progress at the point
// [Topology.Statistics] is called.
type FlowStatistics struct {
	Name string

	// BytesDelivered is the number of in-order bytes the receiver has
	// accepted so far.
	BytesDelivered int

	// BytesTransmitted is the total wire-size bytes the sender has put on
	// the wire, counting retransmissions.
	BytesTransmitted int

	// BytesRetransmitted is the subset of BytesTransmitted spent on
	// retransmissions.
	BytesRetransmitted int

	// Timeouts is the number of RTO expirations the sender has suffered.
	Timeouts int

	// RetransmissionRatio is BytesRetransmitted / BytesTransmitted, or
	// zero if nothing has been sent yet.
	RetransmissionRatio float64

	// ThroughputBytesPerTick is BytesDelivered over the elapsed ticks.
	ThroughputBytesPerTick float64
}

// Statistics is the aggregate result of a simulation run. For a Cloud
// topology, MeanThroughput and StdDevThroughput characterize fairness
// across the competing flows; for a Direct topology they simply equal
// (and have zero spread around) the single flow's throughput.
type Statistics struct {
	Ticks int

	Flows []FlowStatistics

	MeanThroughput   float64
	StdDevThroughput float64

	RoutersDropped      []int
	TotalPacketsDropped int
}

// Statistics computes a [Statistics] snapshot from the topology's current
// state. It does not require the run to have finished.
func (t *Topology) Statistics() Statistics {
	result := Statistics{Ticks: t.tick}

	throughputs := make([]float64, 0, len(t.flows))
	for _, f := range t.flows {
		sender := f.SenderEndpoint.Sender()
		receiver := f.ReceiverEndpoint.Receiver()

		delivered := int(receiver.RcvNxt())
		sent := sender.BytesTransmitted()
		retransmitted := sender.BytesRetransmitted()

		var ratio float64
		if sent > 0 {
			ratio = float64(retransmitted) / float64(sent)
		}
		var throughput float64
		if result.Ticks > 0 {
			throughput = float64(delivered) / float64(result.Ticks)
		}
		throughputs = append(throughputs, throughput)

		result.Flows = append(result.Flows, FlowStatistics{
			Name:                   f.Name,
			BytesDelivered:         delivered,
			BytesTransmitted:       sent,
			BytesRetransmitted:     retransmitted,
			Timeouts:               sender.Timeouts(),
			RetransmissionRatio:    ratio,
			ThroughputBytesPerTick: throughput,
		})
	}

	if len(throughputs) > 0 {
		// montanaflynn/stats only errors on an empty input slice, which
		// cannot happen here since throughputs has exactly len(t.flows)
		// entries and the len check above guards the zero case.
		mean, _ := goStats.Mean(throughputs)
		stddev, _ := goStats.StandardDeviation(throughputs)
		result.MeanThroughput = mean
		result.StdDevThroughput = stddev
	}

	for _, r := range t.routers {
		result.RoutersDropped = append(result.RoutersDropped, r.PacketsDropped())
		result.TotalPacketsDropped += r.PacketsDropped()
	}

	return result
}
