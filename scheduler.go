package congsim

//
// Scheduler: the tick-driven event loop binding links, routers, and
// endpoints into a single deterministic simulation
//

// Flow is one sender/receiver pair and the links at its two ends. A
// [Topology] with a single Flow is a Direct topology; one with several,
// all sharing the same router chain, is a Cloud topology.
type Flow struct {
	Name string

	SenderEndpoint   *Endpoint
	ReceiverEndpoint *Endpoint

	HeadLink *Link
	TailLink *Link
}

// Topology is a fully wired simulation: a shared chain of [Router]s, the
// [Link]s connecting them, and one or more [Flow]s feeding into that
// chain. Build one with [NewDirectTopology] or [NewCloudTopology], then
// drive it to completion with repeated calls to [Topology.Tick].
type Topology struct {
	logger Logger

	routers    []*Router
	interLinks []*Link
	flows      []*Flow

	endpoints    []*Endpoint
	endpointByID map[EndpointID]*Endpoint

	timers *TimerRegistry
	tick   int
}

// Tick advances the simulation by exactly one virtual-clock tick. The
// phase order is fixed and deterministic:
//
//  1. every endpoint learns the new tick number;
//  2. any sender whose RTO timer is due now retransmits;
//  3. every sender emits as many new segments as its window allows;
//  4. every link moves newly staged packets into flight;
//  5. every link delivers packets whose delay has fully decayed, handing
//     them to whatever sits downstream (a router's queue, or a receiver's
//     or sender's endpoint logic);
//  6. every router forwards queued data packets (subject to its
//     one-packet-per-outbound-link-per-phase rule) and drains its
//     unbounded ACK return queue.
//
// Phase 6 is what realizes router-introduced delay: a packet a router
// hands to an outbound link this tick is only staged as in-flight, so it
// is phase 5 of a *later* tick that delivers it onward.
func (t *Topology) Tick() error {
	t.tick++
	now := t.tick

	if t.logger != nil {
		t.logger.Debugf("congsim: tick %d: %d flow(s), %d router(s)", now, len(t.flows), len(t.routers))
	}

	for _, e := range t.endpoints {
		e.SetTick(now)
	}
	for _, l := range t.allLinks() {
		l.SetTick(now)
	}

	for _, id := range t.timers.order {
		if t.timers.DueAt(id, now) {
			t.endpointByID[id].HandleTimeout()
		}
	}

	for _, e := range t.endpoints {
		e.Process1()
	}

	for _, l := range t.allLinks() {
		if err := l.ProcessForward(1); err != nil {
			return err
		}
		if err := l.ProcessReverse(1); err != nil {
			return err
		}
	}

	for _, l := range t.allLinks() {
		if err := l.ProcessForward(2); err != nil {
			return err
		}
		if err := l.ProcessReverse(2); err != nil {
			return err
		}
	}

	for _, r := range t.routers {
		if err := r.Process(); err != nil {
			return err
		}
		if err := r.ProcessReturn(); err != nil {
			return err
		}
	}

	return nil
}

// Run calls [Topology.Tick] until either iterations ticks have elapsed or
// every flow's receiver has received the full transfer, whichever comes
// first. It returns the number of ticks actually run.
func (t *Topology) Run(iterations int) (int, error) {
	if iterations <= 0 {
		return 0, ErrInvalidIterations
	}
	ran := 0
	for ; ran < iterations; ran++ {
		if t.done() {
			break
		}
		if err := t.Tick(); err != nil {
			return ran, err
		}
	}
	return ran, nil
}

func (t *Topology) done() bool {
	for _, f := range t.flows {
		sender := f.SenderEndpoint.Sender()
		receiver := f.ReceiverEndpoint.Receiver()
		if int(receiver.RcvNxt()) < sender.totalDataBytes {
			return false
		}
	}
	return true
}

// CurrentTick returns the number of ticks elapsed so far.
func (t *Topology) CurrentTick() int {
	return t.tick
}

// Flows returns the topology's flows, in the order they were created.
func (t *Topology) Flows() []*Flow {
	return t.flows
}

// Routers returns the topology's shared router chain, from the one
// nearest the senders to the one nearest the receivers.
func (t *Topology) Routers() []*Router {
	return t.routers
}

// SetTracer attaches tracer to every link in the topology, so that every
// packet exchanged by any flow is recorded. Call this before the first
// [Topology.Tick] to capture a complete trace.
func (t *Topology) SetTracer(tracer *PCAPTracer) {
	for _, l := range t.allLinks() {
		l.SetTracer(tracer)
	}
}

func (t *Topology) allLinks() []*Link {
	links := make([]*Link, 0, len(t.interLinks)+2*len(t.flows))
	for _, f := range t.flows {
		links = append(links, f.HeadLink, f.TailLink)
	}
	links = append(links, t.interLinks...)
	return links
}
