package congsim

//
// Endpoint: binds a Sender or Receiver to the Link at its edge of the
// topology
//

// Endpoint adapts a [Sender] or [Receiver] to the [Link]/[DeliverFunc]
// wiring of a [Topology]. Exactly one of sender or receiver is non-nil:
// a unidirectional bulk transfer has a pure sender at one end and a pure
// receiver at the other, never both on the same endpoint.
//
// Endpoint has no tick-loop of its own. The scheduler calls [Endpoint.SetTick]
// once per tick, then [Endpoint.Process1] to stage newly generated segments;
// inbound delivery happens asynchronously, as a [DeliverFunc] callback
// invoked by the adjacent [Link] once a packet's delay has decayed.
type Endpoint struct {
	id     EndpointID
	name   string
	logger Logger

	sender   *Sender
	receiver *Receiver
	link     *Link

	currentTick int
}

// NewSenderEndpoint creates an [Endpoint] wrapping sender, attached to the
// link leading away from it.
func NewSenderEndpoint(id EndpointID, name string, sender *Sender, link *Link, logger Logger) *Endpoint {
	return &Endpoint{id: id, name: name, sender: sender, link: link, logger: logger}
}

// NewReceiverEndpoint creates an [Endpoint] wrapping receiver, attached to
// the link leading toward it.
func NewReceiverEndpoint(id EndpointID, name string, receiver *Receiver, link *Link, logger Logger) *Endpoint {
	return &Endpoint{id: id, name: name, receiver: receiver, link: link, logger: logger}
}

// ID returns the endpoint's stable identity.
func (e *Endpoint) ID() EndpointID { return e.id }

// Sender returns the endpoint's [Sender], or nil if this is a receiver
// endpoint.
func (e *Endpoint) Sender() *Sender { return e.sender }

// Receiver returns the endpoint's [Receiver], or nil if this is a sender
// endpoint.
func (e *Endpoint) Receiver() *Receiver { return e.receiver }

// SetTick records the current tick, consulted by the Deliver* callbacks
// below since [DeliverFunc] itself carries no tick parameter.
func (e *Endpoint) SetTick(tick int) {
	e.currentTick = tick
}

// Process1 asks this endpoint's sender (if any) to generate new segments
// for the current tick and stages them on the outbound link.
func (e *Endpoint) Process1() {
	if e.sender == nil {
		return
	}
	for _, pkt := range e.sender.Tick(e.currentTick) {
		e.link.SubmitForward(pkt)
	}
}

// DeliverData is the [DeliverFunc] registered as the forward-direction
// sink of the link feeding into this endpoint's receiver. It runs the
// receiver's cumulative-ACK logic and stages the resulting ACK for the
// return trip.
func (e *Endpoint) DeliverData(pkt Packet) error {
	ack := e.receiver.HandleData(pkt, pkt.Source, e.id, e.currentTick)
	e.link.SubmitReverse(ack)
	return nil
}

// DeliverAck is the [DeliverFunc] registered as the reverse-direction sink
// of the link feeding into this endpoint's sender. It runs the sender's
// ACK-handling state machine and stages any resulting retransmissions.
func (e *Endpoint) DeliverAck(pkt Packet) error {
	for _, pkt := range e.sender.HandleAck(pkt, e.currentTick) {
		e.link.SubmitForward(pkt)
	}
	return nil
}

// HandleTimeout runs this endpoint's sender's RTO-expiry handling and
// stages the resulting retransmission. The scheduler calls this directly
// for any sender whose timer is due, rather than routing it through a
// [Link] callback: a timeout is not a delivered packet.
func (e *Endpoint) HandleTimeout() {
	if e.sender == nil {
		return
	}
	pkt := e.sender.OnTimeout(e.currentTick)
	e.link.SubmitForward(pkt)
}
