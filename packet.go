package congsim

//
// Packet model
//

// MSS is the Maximum Segment Size: the number of payload bytes carried by
// a single data [Packet]. Real segmentation libraries make this
// configurable per connection; this simulator treats it as a single global
// constant, matching the original specification.
const MSS = 1024

// HeaderSize is the simulated per-packet header overhead, in bytes. It is
// accounted for in router byte budgets and link timing, but never in
// application-level throughput.
const HeaderSize = 20

// PacketFlags is a bitmask of packet flags. Only Data and Ack are used by
// this simulator; Syn and Fin exist for completeness with the original
// specification's data model but never appear on the wire here, since
// connection setup/teardown is out of scope.
type PacketFlags uint8

const (
	// FlagData marks a packet as carrying application payload.
	FlagData PacketFlags = 1 << iota

	// FlagAck marks a packet as a (possibly duplicate) acknowledgment.
	FlagAck

	// FlagSyn is unused; kept for model completeness.
	FlagSyn

	// FlagFin is unused; kept for model completeness.
	FlagFin
)

// EndpointID stably identifies an [Endpoint] within a [Topology]. Using a
// plain integer index rather than a pointer or a name keeps forwarding
// tables and back-references trivially comparable and ordered.
type EndpointID int

// Packet is an immutable record exchanged between senders, links, routers,
// and receivers. A data packet occupies sequence range [Seq, Seq+Size); an
// ACK packet carries AckNum (the next expected byte, cumulative) and does
// not consume sequence space.
//
// Packets are never mutated after creation: a Packet dropped by a [Router]
// simply ceases to be referenced, and delivery always hands the same value
// onward.
type Packet struct {
	// Source is the endpoint that created this packet.
	Source EndpointID

	// Destination is the endpoint this packet is addressed to.
	Destination EndpointID

	// Flags selects the packet kind; see FlagData and FlagAck.
	Flags PacketFlags

	// Seq is the first sequence byte of a data packet's payload. Unused on ACKs.
	Seq uint32

	// Size is the number of payload bytes a data packet carries. Unused on ACKs.
	Size int

	// AckNum is the next expected in-order byte, for ACK packets.
	AckNum uint32

	// Window is the advertised receiver window carried by an ACK packet.
	Window int

	// SentTick is the tick at which this packet was handed to its first
	// outbound link. Used by the sender's RTT sampler; per Karn's rule,
	// retransmitted segments never contribute a sample.
	SentTick int

	// Retransmit is true if this packet is a retransmission of
	// previously-sent data.
	Retransmit bool
}

// WireSize is the total size of a packet on the wire, including the
// simulated header, as charged against router byte budgets.
func (p Packet) WireSize() int {
	if p.Flags&FlagData != 0 {
		return p.Size + HeaderSize
	}
	return HeaderSize
}

// EndSeq is the first sequence byte past this data packet's payload.
func (p Packet) EndSeq() uint32 {
	return p.Seq + uint32(p.Size)
}
