// Package congsim is a discrete-event simulator of TCP unidirectional bulk
// transfer. It models the congestion-control dynamics of Tahoe, Reno, and
// NewReno senders coupled to a deterministic, tick-driven event engine of
// links, routers, and receivers.
//
// The simulator advances a virtual clock in round-trip-time ticks (there is
// no wall-clock time anywhere in this package). Each tick, [Topology.Tick]
// drives senders to emit segments, links to carry them subject to
// transmission and propagation delay, routers to forward or tail-drop them
// against a byte budget, and receivers to emit cumulative or duplicate
// ACKs. See [Topology.Tick] for the exact phase ordering.
//
// Use [NewDirectTopology] to build a single sender/receiver chain through a
// series of routers, or [NewCloudTopology] to fan many senders into a
// shared router chain feeding matched receivers. Both return a [Topology]
// that you drive to completion with repeated calls to [Topology.Tick] (or
// with [Topology.Run]), after which [Topology.Statistics] reports throughput,
// retransmission ratio, and timeout counts.
package congsim
