package congsim

//
// Receiver: cumulative-ACK generation with duplicate-ACK emission
//

// Receiver tracks the highest in-order byte seen so far and emits
// cumulative ACKs, with a duplicate ACK whenever an arrival does not
// advance that frontier. Out-of-order arrivals are bookkeeping only: their
// payload bytes are discarded, since this simulator never delivers
// application data anywhere.
type Receiver struct {
	logger Logger
	name   string

	rcvNxt        uint32
	window        int
	outOfOrder    map[uint32]int // seq -> size, for bytes withheld from the advertised window
	lastAckedNext uint32
	haveAcked     bool
}

// NewReceiver creates a [Receiver] with the given advertised window.
func NewReceiver(name string, window int, logger Logger) *Receiver {
	return &Receiver{
		logger:     logger,
		name:       name,
		window:     window,
		outOfOrder: make(map[uint32]int),
	}
}

// HandleData processes an arriving data packet per §4.4 of the original
// specification and returns the ACK packet to send back to src.
func (rv *Receiver) HandleData(pkt Packet, src EndpointID, self EndpointID, tick int) Packet {
	switch {
	case pkt.Seq == rv.rcvNxt:
		rv.rcvNxt += uint32(pkt.Size)
		rv.drainContiguous()
	case pkt.Seq > rv.rcvNxt:
		rv.outOfOrder[pkt.Seq] = pkt.Size
	default:
		// retransmit of already-delivered data: accept silently
	}

	oooBytes := 0
	for _, size := range rv.outOfOrder {
		oooBytes += size
	}

	dup := rv.haveAcked && rv.rcvNxt == rv.lastAckedNext
	rv.lastAckedNext = rv.rcvNxt
	rv.haveAcked = true

	if rv.logger != nil {
		if dup {
			rv.logger.Debugf("congsim: receiver %s: duplicate ack=%d (seq=%d out of order)", rv.name, rv.rcvNxt, pkt.Seq)
		} else {
			rv.logger.Debugf("congsim: receiver %s: ack=%d", rv.name, rv.rcvNxt)
		}
	}

	return Packet{
		Source:      self,
		Destination: src,
		Flags:       FlagAck,
		AckNum:      rv.rcvNxt,
		Window:      rv.window - oooBytes,
		SentTick:    tick,
	}
}

// drainContiguous advances rcvNxt past any buffered out-of-order segments
// that are now contiguous with the in-order frontier.
func (rv *Receiver) drainContiguous() {
	for {
		size, ok := rv.outOfOrder[rv.rcvNxt]
		if !ok {
			return
		}
		delete(rv.outOfOrder, rv.rcvNxt)
		rv.rcvNxt += uint32(size)
	}
}

// RcvNxt returns the highest in-order byte received so far.
func (rv *Receiver) RcvNxt() uint32 {
	return rv.rcvNxt
}
