package congsim

//
// Router: bounded FIFO queue, forwarding table, tail-drop
//

import "fmt"

// Router is a byte-budgeted FIFO queue with a forwarding table from
// destination [EndpointID] to the [Link] that leads toward it. Arrivals
// that would push occupancy past MaxBufferSize are tail-dropped silently;
// a forwarding-table miss is a fatal configuration error, reported as
// [ErrNoRoute].
//
// ACKs travel a parallel, unbounded return queue: the original
// specification models the reverse path as bypassing the byte budget
// entirely, isolating loss behavior to the forward (data) path.
type Router struct {
	logger Logger
	name   string

	maxBufferSize int
	occupancy     int
	queue         []Packet
	forwardTable  map[EndpointID]*Link

	returnQueue  []Packet
	reverseTable map[EndpointID]*Link

	packetsDropped int
	bytesDropped   int
}

// DefaultRouterBuffer is the router byte budget used when none is given:
// 6 MSS-sized segments plus a small slack for header overhead.
const DefaultRouterBuffer = 6*MSS + 100

// NewRouter creates an empty [Router] with the given byte budget. Routes
// must be registered with [Router.AddRoute] and [Router.AddReturnRoute]
// before the first tick.
func NewRouter(name string, maxBufferSize int, logger Logger) *Router {
	return &Router{
		logger:        logger,
		name:          name,
		maxBufferSize: maxBufferSize,
		forwardTable:  make(map[EndpointID]*Link),
		reverseTable:  make(map[EndpointID]*Link),
	}
}

// AddRoute registers the [Link] to use when forwarding a data packet
// addressed to dest. Registering the same destination twice is always a
// topology-builder bug, never a runtime condition, so it is reported as
// [ErrDuplicateEndpoint].
func (r *Router) AddRoute(dest EndpointID, link *Link) error {
	if _, ok := r.forwardTable[dest]; ok {
		return fmt.Errorf("%w: router %s already routes to endpoint %d", ErrDuplicateEndpoint, r.name, dest)
	}
	r.forwardTable[dest] = link
	return nil
}

// AddReturnRoute registers the [Link] to use when forwarding an ACK
// addressed back to dest (the original data packet's source). See
// [Router.AddRoute] for why a duplicate registration is an error.
func (r *Router) AddReturnRoute(dest EndpointID, link *Link) error {
	if _, ok := r.reverseTable[dest]; ok {
		return fmt.Errorf("%w: router %s already has a return route to endpoint %d", ErrDuplicateEndpoint, r.name, dest)
	}
	r.reverseTable[dest] = link
	return nil
}

// Enqueue accepts a data packet arriving from upstream, tail-dropping it
// if doing so would exceed the byte budget. This is the [DeliverFunc]
// passed as the forward-direction sink for the [Link] feeding this router.
func (r *Router) Enqueue(pkt Packet) error {
	size := pkt.WireSize()
	if r.occupancy+size > r.maxBufferSize {
		r.packetsDropped++
		r.bytesDropped += size
		if r.logger != nil {
			r.logger.Debugf("congsim: router %s: tail-drop seq=%d size=%d occupancy=%d/%d",
				r.name, pkt.Seq, size, r.occupancy, r.maxBufferSize)
		}
		return nil
	}
	r.queue = append(r.queue, pkt)
	r.occupancy += size
	return nil
}

// ReturnEnqueue accepts an ACK arriving from downstream. Per the original
// specification, the return path never tail-drops.
func (r *Router) ReturnEnqueue(pkt Packet) error {
	r.returnQueue = append(r.returnQueue, pkt)
	return nil
}

// Process drains as many head-of-queue data packets as it can hand off
// this tick. Strict FIFO means the router never looks past a head packet
// it cannot yet forward: at most one packet is handed to a given outbound
// link per call, so once a link has already received a packet this call,
// a further packet destined for that same link waits for the next tick
// even if a different, still-unused link sits further back in the queue.
func (r *Router) Process() error {
	usedThisPhase := make(map[*Link]bool)
	for len(r.queue) > 0 {
		head := r.queue[0]
		link, ok := r.forwardTable[head.Destination]
		if !ok {
			return fmt.Errorf("%w: router %s has no route to endpoint %d", ErrNoRoute, r.name, head.Destination)
		}
		if usedThisPhase[link] {
			break
		}
		r.queue = r.queue[1:]
		r.occupancy -= head.WireSize()
		if err := link.AcceptForward(head); err != nil {
			return err
		}
		usedThisPhase[link] = true
		if r.logger != nil {
			r.logger.Debugf("congsim: router %s: forward seq=%d to endpoint %d", r.name, head.Seq, head.Destination)
		}
	}
	return nil
}

// ProcessReturn drains the entire return queue every call: the original
// specification's ACK bypass means there is no byte budget or per-link
// throttling to enforce on this path.
func (r *Router) ProcessReturn() error {
	queue := r.returnQueue
	r.returnQueue = nil
	for _, pkt := range queue {
		link, ok := r.reverseTable[pkt.Destination]
		if !ok {
			return fmt.Errorf("%w: router %s has no return route to endpoint %d", ErrNoRoute, r.name, pkt.Destination)
		}
		if err := link.AcceptReverse(pkt); err != nil {
			return err
		}
	}
	return nil
}

// Occupancy returns the router's current queue occupancy in bytes.
func (r *Router) Occupancy() int {
	return r.occupancy
}

// PacketsDropped returns the number of data packets tail-dropped so far.
func (r *Router) PacketsDropped() int {
	return r.packetsDropped
}
