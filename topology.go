package congsim

//
// Topology builders: Direct (one flow through a router chain) and Cloud
// (several flows fanning into the same router chain)
//

import (
	"fmt"
	"strings"
)

// TopologyKind names a topology shape, used by the CLI to select a
// builder.
type TopologyKind int

const (
	// DirectKind is a single sender/receiver pair through a router chain.
	DirectKind TopologyKind = iota

	// CloudKind is several sender/receiver pairs fanning into one shared
	// router chain.
	CloudKind
)

// String implements fmt.Stringer.
func (k TopologyKind) String() string {
	switch k {
	case DirectKind:
		return "direct"
	case CloudKind:
		return "cloud"
	default:
		return "unknown"
	}
}

// ParseTopologyKind parses a case-insensitive topology name.
func ParseTopologyKind(s string) (TopologyKind, error) {
	switch strings.ToLower(s) {
	case "direct":
		return DirectKind, nil
	case "cloud":
		return CloudKind, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTopology, s)
	}
}

// Config holds the parameters shared by every flow in a [Topology]:
// the shape of the router chain and the link delay budget it imposes.
type Config struct {
	// RouterCount is the number of routers in the shared chain. Must be
	// at least one.
	RouterCount int

	// RouterBufferSize is the byte budget of each router's FIFO queue.
	// Zero selects [DefaultRouterBuffer].
	RouterBufferSize int

	// LinkConfig is the delay budget applied uniformly to every link in
	// the topology: the head link from each sender, every inter-router
	// hop, and the tail link into each receiver.
	LinkConfig LinkConfig

	// InitialRWND is the receiver window advertised before any data has
	// been exchanged, and the window every [Receiver] advertises absent
	// out-of-order buffering pressure.
	InitialRWND int

	// TotalDataBytes is the size of the bulk transfer each flow carries.
	TotalDataBytes int

	// Logger receives structured log output, filtered by Reporting. A
	// nil Logger disables logging entirely.
	Logger Logger

	// Reporting selects which components log through Logger.
	Reporting ReportingFlags
}

func (c Config) validate() error {
	if c.RouterCount < 1 {
		return fmt.Errorf("%w: router count must be at least one", ErrInvalidCount)
	}
	if c.TotalDataBytes < 1 {
		return fmt.Errorf("%w: total data bytes must be positive", ErrInvalidCount)
	}
	return nil
}

func (c Config) routerBufferSize() int {
	if c.RouterBufferSize > 0 {
		return c.RouterBufferSize
	}
	return DefaultRouterBuffer
}

// NewDirectTopology builds a single flow, running algorithm, through a
// chain of cfg.RouterCount routers.
func NewDirectTopology(cfg Config, algorithm Algorithm) (*Topology, error) {
	return build(cfg, []flowSpec{{name: "flow0", algorithm: algorithm}})
}

// NewCloudTopology builds len(algorithms) flows, one per entry, all
// fanning into the same shared router chain described by cfg. Each flow
// may run a different congestion-control algorithm, which is the usual
// way this topology is used to study inter-algorithm fairness.
func NewCloudTopology(cfg Config, algorithms []Algorithm) (*Topology, error) {
	if len(algorithms) < 1 {
		return nil, fmt.Errorf("%w: cloud topology requires at least one flow", ErrInvalidCount)
	}
	specs := make([]flowSpec, len(algorithms))
	for i, a := range algorithms {
		specs[i] = flowSpec{name: fmt.Sprintf("flow%d", i), algorithm: a}
	}
	return build(cfg, specs)
}

type flowSpec struct {
	name      string
	algorithm Algorithm
}

// build wires routers, inter-router links, and one flow per spec into a
// [Topology]. Direct is simply the len(specs) == 1 case of Cloud: both
// share every routing rule below, which is what makes the two topology
// shapes a single builder instead of two divergent code paths.
func build(cfg Config, specs []flowSpec) (*Topology, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	timers := NewTimerRegistry()

	routers := make([]*Router, cfg.RouterCount)
	for i := range routers {
		routers[i] = NewRouter(fmt.Sprintf("router%d", i), cfg.routerBufferSize(), reportingLogger(logger, cfg.Reporting, ReportingRouters))
	}

	interLinks := make([]*Link, len(routers)-1)
	for i := range interLinks {
		interLinks[i] = NewLink(
			fmt.Sprintf("inter%d-%d", i, i+1),
			cfg.LinkConfig,
			routers[i+1].Enqueue,
			routers[i].ReturnEnqueue,
			reportingLogger(logger, cfg.Reporting, ReportingLinks),
		)
	}

	t := &Topology{
		logger:       reportingLogger(logger, cfg.Reporting, ReportingSimulator),
		routers:      routers,
		interLinks:   interLinks,
		endpointByID: make(map[EndpointID]*Endpoint),
		timers:       timers,
	}

	nextID := EndpointID(0)
	for _, spec := range specs {
		senderID := nextID
		nextID++
		receiverID := nextID
		nextID++

		senderLogger := reportingLogger(logger, cfg.Reporting, ReportingSenders)
		receiverLogger := reportingLogger(logger, cfg.Reporting, ReportingReceivers)

		sender := NewSender(spec.name+"-sender", senderID, receiverID, spec.algorithm, cfg.TotalDataBytes, cfg.InitialRWND, timers, senderLogger)
		receiver := NewReceiver(spec.name+"-receiver", cfg.InitialRWND, receiverLogger)

		senderEndpoint := &Endpoint{id: senderID, name: spec.name + "-sender", sender: sender, logger: senderLogger}
		receiverEndpoint := &Endpoint{id: receiverID, name: spec.name + "-receiver", receiver: receiver, logger: receiverLogger}

		linkLogger := reportingLogger(logger, cfg.Reporting, ReportingLinks)
		headLink := NewLink(spec.name+"-head", cfg.LinkConfig, routers[0].Enqueue, senderEndpoint.DeliverAck, linkLogger)
		tailLink := NewLink(spec.name+"-tail", cfg.LinkConfig, receiverEndpoint.DeliverData, routers[len(routers)-1].ReturnEnqueue, linkLogger)

		senderEndpoint.link = headLink
		receiverEndpoint.link = tailLink

		// Each senderID/receiverID pair is freshly minted by the counter
		// above, so a route collision here can only mean a bug in this
		// loop, not a caller mistake: panic rather than thread another
		// error return through every call site.
		Must0(routers[0].AddReturnRoute(senderID, headLink))
		Must0(routers[len(routers)-1].AddRoute(receiverID, tailLink))
		for i := range interLinks {
			Must0(routers[i].AddRoute(receiverID, interLinks[i]))
			Must0(routers[i+1].AddReturnRoute(senderID, interLinks[i]))
		}

		flow := &Flow{
			Name:             spec.name,
			SenderEndpoint:   senderEndpoint,
			ReceiverEndpoint: receiverEndpoint,
			HeadLink:         headLink,
			TailLink:         tailLink,
		}
		t.flows = append(t.flows, flow)
		t.endpoints = append(t.endpoints, senderEndpoint, receiverEndpoint)
		t.endpointByID[senderID] = senderEndpoint
		t.endpointByID[receiverID] = receiverEndpoint
	}

	return t, nil
}

// reportingLogger returns logger if flag is set in reporting, nil
// otherwise, so components never need to know about [ReportingFlags]
// themselves: they simply treat a nil [Logger] as "don't log".
func reportingLogger(logger Logger, reporting ReportingFlags, flag ReportingFlags) Logger {
	if logger == nil || !reporting.Has(flag) {
		return nil
	}
	return logger
}
