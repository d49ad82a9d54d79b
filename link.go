package congsim

//
// Link: in-flight packet holding with transmission and propagation delay
//

// DeliverFunc hands a packet to whatever sits immediately downstream of a
// [Link] in one direction: a [Router]'s bounded queue, or an [Endpoint]'s
// inbound mailbox. Using a plain function value here — rather than a
// named interface with a single method — keeps wiring a [Topology] a
// matter of passing a method value (e.g. `router.Enqueue`) with no
// adapter boilerplate.
type DeliverFunc func(Packet) error

// inFlightPacket is a packet currently being carried by a [Link], tagged
// with its remaining delay in tick-equivalents.
type inFlightPacket struct {
	packet    Packet
	remaining float64
}

// LinkConfig contains the delay characteristics of a [Link]. Both delays
// are expressed as a fraction of one tick, per the original specification
// (typical values: 0.001 on fast links, 0.01 on the link nearest a
// receiver).
type LinkConfig struct {
	// TxDelay is the transmission delay t_x, as a fraction of one tick.
	TxDelay float64

	// PropDelay is the propagation delay t_p, as a fraction of one tick.
	PropDelay float64
}

// delay returns the combined per-packet delay this link stamps on entry.
func (c LinkConfig) delay() float64 {
	return c.TxDelay + c.PropDelay
}

// Link holds in-flight packets for a configurable delay and delivers them
// to whatever sits downstream once that delay has decayed to zero. A
// [Link] is bidirectional: it maintains independent forward and reverse
// FIFOs sharing the same delay characteristics, since the original
// specification does not distinguish delay by direction.
//
// Endpoint- and receiver-originated traffic goes through the explicit
// two-phase Submit/ProcessForward(1) (or ProcessReverse(1)) stage-then-
// accept path, mirroring the scheduler's phase list literally at the
// first and last hop. Router-originated traffic instead uses
// [Link.AcceptForward] / [Link.AcceptReverse], a single atomic stage,
// because a router's own process(0) is the only explicitly scheduled
// operation at that boundary.
type Link struct {
	logger Logger
	name   string
	config LinkConfig

	forwardStaged   []Packet
	forwardInFlight []inFlightPacket
	forwardDeliver  DeliverFunc

	reverseStaged   []Packet
	reverseInFlight []inFlightPacket
	reverseDeliver  DeliverFunc

	tracer      *PCAPTracer
	currentTick int
}

// SetTracer attaches a [PCAPTracer] that records every packet this link
// delivers, in either direction. A nil tracer disables tracing.
func (l *Link) SetTracer(tracer *PCAPTracer) {
	l.tracer = tracer
}

// SetTick records the current tick, used to timestamp traced packets.
func (l *Link) SetTick(tick int) {
	l.currentTick = tick
}

// NewLink creates a [Link] with the given delay characteristics. Forward
// traffic (data, typically) is delivered via forwardDeliver once its delay
// has decayed; reverse traffic (ACKs, typically) via reverseDeliver.
func NewLink(name string, config LinkConfig, forwardDeliver, reverseDeliver DeliverFunc, logger Logger) *Link {
	return &Link{
		logger:         logger,
		name:           name,
		config:         config,
		forwardDeliver: forwardDeliver,
		reverseDeliver: reverseDeliver,
	}
}

// SubmitForward stages a packet for later acceptance by ProcessForward(1).
// Used by the endpoint at the sender end of a link.
func (l *Link) SubmitForward(pkt Packet) {
	l.forwardStaged = append(l.forwardStaged, pkt)
}

// SubmitReverse stages a packet for later acceptance by ProcessReverse(1).
// Used by the endpoint at the receiver end of a link.
func (l *Link) SubmitReverse(pkt Packet) {
	l.reverseStaged = append(l.reverseStaged, pkt)
}

// AcceptForward atomically stages and accepts a packet handed directly by
// an upstream [Router], stamping it with this link's delay immediately.
func (l *Link) AcceptForward(pkt Packet) error {
	l.forwardInFlight = append(l.forwardInFlight, inFlightPacket{packet: pkt, remaining: l.config.delay()})
	if l.logger != nil {
		l.logger.Debugf("congsim: link %s: accept forward seq=%d", l.name, pkt.Seq)
	}
	return nil
}

// AcceptReverse is the reverse-direction counterpart of AcceptForward.
func (l *Link) AcceptReverse(pkt Packet) error {
	l.reverseInFlight = append(l.reverseInFlight, inFlightPacket{packet: pkt, remaining: l.config.delay()})
	if l.logger != nil {
		l.logger.Debugf("congsim: link %s: accept reverse ack=%d", l.name, pkt.AckNum)
	}
	return nil
}

// ProcessForward implements the forward-direction transmit (mode 1) and
// receive (mode 2) phases described in the original specification's §4.2.
func (l *Link) ProcessForward(mode int) error {
	switch mode {
	case 1:
		for _, pkt := range l.forwardStaged {
			l.forwardInFlight = append(l.forwardInFlight, inFlightPacket{packet: pkt, remaining: l.config.delay()})
		}
		l.forwardStaged = l.forwardStaged[:0]
		return nil
	case 2:
		return l.deliverReady(&l.forwardInFlight, l.forwardDeliver)
	default:
		return nil
	}
}

// ProcessReverse is the reverse-direction counterpart of ProcessForward.
func (l *Link) ProcessReverse(mode int) error {
	switch mode {
	case 1:
		for _, pkt := range l.reverseStaged {
			l.reverseInFlight = append(l.reverseInFlight, inFlightPacket{packet: pkt, remaining: l.config.delay()})
		}
		l.reverseStaged = l.reverseStaged[:0]
		return nil
	case 2:
		return l.deliverReady(&l.reverseInFlight, l.reverseDeliver)
	default:
		return nil
	}
}

// deliverReady decrements the remaining delay of every in-flight packet by
// one tick-equivalent, then delivers — in FIFO order — every packet whose
// delay has decayed to zero or below.
func (l *Link) deliverReady(inFlight *[]inFlightPacket, deliver DeliverFunc) error {
	queue := *inFlight
	for i := range queue {
		queue[i].remaining -= 1.0
	}
	idx := 0
	for idx < len(queue) && queue[idx].remaining <= 0 {
		pkt := queue[idx].packet
		idx++
		if deliver == nil {
			continue
		}
		if l.logger != nil {
			l.logger.Debugf("congsim: link %s: deliver seq=%d ack=%d", l.name, pkt.Seq, pkt.AckNum)
		}
		if err := deliver(pkt); err != nil {
			*inFlight = queue[idx:]
			return err
		}
		if l.tracer != nil {
			if err := l.tracer.Write(pkt, l.currentTick); err != nil && l.logger != nil {
				l.logger.Warnf("congsim: link %s: tracer: %s", l.name, err.Error())
			}
		}
	}
	*inFlight = queue[idx:]
	return nil
}
