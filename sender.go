package congsim

//
// Sender: the congestion-control core
//

import (
	"fmt"
	"math"
	"strings"
)

// Algorithm selects a sender's congestion-control variant. The three
// variants share everything except duplicate-ACK handling and loss
// recovery, so [Sender] models them as a single type parameterized by this
// tag rather than as an inheritance hierarchy (see the original
// specification's Design Notes, §9).
type Algorithm int

const (
	// Tahoe always resets to slow start on loss, with no fast recovery.
	Tahoe Algorithm = iota

	// Reno adds fast retransmit and fast recovery, deflating to
	// ssthresh on the first new ACK that ends recovery.
	Reno

	// NewReno additionally distinguishes partial from full ACKs while
	// in fast recovery, retransmitting once per partial ACK instead of
	// falling back to a timeout.
	NewReno
)

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	switch a {
	case Tahoe:
		return "Tahoe"
	case Reno:
		return "Reno"
	case NewReno:
		return "NewReno"
	default:
		return "Unknown"
	}
}

// ParseAlgorithm parses a case-insensitive algorithm name.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(s) {
	case "tahoe":
		return Tahoe, nil
	case "reno":
		return Reno, nil
	case "newreno":
		return NewReno, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// Mode is a sender's congestion-control state.
type Mode int

const (
	// SlowStart grows cwnd by one MSS per new ACK.
	SlowStart Mode = iota

	// CongestionAvoidance grows cwnd by roughly one MSS per RTT.
	CongestionAvoidance

	// FastRecovery is entered by Reno and NewReno on the third
	// duplicate ACK, inflating cwnd while recovering a lost segment
	// without falling back to slow start.
	FastRecovery
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case SlowStart:
		return "SlowStart"
	case CongestionAvoidance:
		return "CongestionAvoidance"
	case FastRecovery:
		return "FastRecovery"
	default:
		return "Unknown"
	}
}

// DefaultInitialSSThresh is the slow-start threshold new senders start
// with, before any loss has been observed.
const DefaultInitialSSThresh = 64 * 1024

// defaultInitialRTO is the RTO, in ticks, used before the first RTT sample
// is available.
const defaultInitialRTO = 3.0

// maxRTO is the maximum RTO, in ticks, per the original specification.
const maxRTO = 60.0

// minRTO is the minimum RTO, in ticks.
const minRTO = 1.0

// segment is one entry of a sender's retransmission buffer: a span of
// bytes sent at least once but not yet cumulatively acknowledged.
type segment struct {
	seq        uint32
	size       int
	sentTick   int
	retransmit bool
}

// Sender is a TCP sender's congestion-control state, parameterized by
// [Algorithm]. See the original specification's §4.5 for the full
// behavioral description; this type implements it directly.
type Sender struct {
	id     EndpointID
	peer   EndpointID
	logger Logger
	name   string

	algorithm Algorithm
	mode      Mode

	cwnd       float64
	ssthresh   int
	flightSize int
	rwnd       int

	sndUna  uint32
	sndNxt  uint32
	sndMax  uint32
	recover uint32

	dupAckCount int

	retransBuffer []segment

	srtt       float64
	rttvar     float64
	rto        float64
	haveSample bool

	totalDataBytes int

	bytesTransmitted   int
	bytesRetransmitted int
	timeouts           int

	timers *TimerRegistry
}

// NewSender creates a [Sender] bound to id, sending to peer, running
// algorithm, with totalDataBytes to transfer in total ([Topology.Run]
// stops early once every flow's receiver holds all of it, so either the
// data size or the run's iteration budget can end a simulation). initialRWND is the receiver
// window assumed before the first ACK arrives. timers is the scheduler's
// shared [TimerRegistry].
func NewSender(name string, id, peer EndpointID, algorithm Algorithm, totalDataBytes, initialRWND int, timers *TimerRegistry, logger Logger) *Sender {
	return &Sender{
		id:             id,
		peer:           peer,
		logger:         logger,
		name:           name,
		algorithm:      algorithm,
		mode:           SlowStart,
		cwnd:           MSS,
		ssthresh:       DefaultInitialSSThresh,
		rwnd:           initialRWND,
		totalDataBytes: totalDataBytes,
		rto:            defaultInitialRTO,
		timers:         timers,
	}
}

// Tick produces as many new MSS-sized segments as the effective window
// and remaining data allow, per §4.5.1.
func (s *Sender) Tick(tick int) []Packet {
	var out []Packet
	for {
		win := s.effectiveWindow()
		if win < MSS {
			break
		}
		remaining := s.totalDataBytes - int(s.sndNxt)
		if remaining <= 0 {
			break
		}
		size := MSS
		if remaining < MSS {
			size = remaining
		}
		pkt := Packet{
			Source:      s.id,
			Destination: s.peer,
			Flags:       FlagData,
			Seq:         s.sndNxt,
			Size:        size,
			SentTick:    tick,
		}
		s.retransBuffer = append(s.retransBuffer, segment{seq: s.sndNxt, size: size, sentTick: tick})
		s.flightSize += size
		s.sndNxt += uint32(size)
		if s.sndNxt > s.sndMax {
			s.sndMax = s.sndNxt
		}
		s.bytesTransmitted += pkt.WireSize()
		out = append(out, pkt)
		if !s.timers.Armed(s.id) {
			s.armRTO(tick)
		}
		if s.logger != nil {
			s.logger.Debugf("congsim: sender %s: send seq=%d size=%d cwnd=%.1f", s.name, pkt.Seq, pkt.Size, s.cwnd)
		}
	}
	return out
}

// HandleAck processes an incoming ACK, dispatching to the algorithm-
// specific duplicate-ACK and recovery handlers. It returns any segments
// that must be retransmitted as a result.
func (s *Sender) HandleAck(ack Packet, tick int) []Packet {
	if ack.AckNum < s.sndUna {
		return nil
	}
	isNew := ack.AckNum > s.sndUna
	s.rwnd = ack.Window

	switch s.algorithm {
	case Tahoe:
		return s.handleAckTahoe(ack, isNew, tick)
	case Reno:
		return s.handleAckReno(ack, isNew, tick)
	default:
		return s.handleAckNewReno(ack, isNew, tick)
	}
}

func (s *Sender) handleAckTahoe(ack Packet, isNew bool, tick int) []Packet {
	if !isNew {
		s.dupAckCount++
		if s.dupAckCount == 3 {
			s.ssthresh = maxInt(s.flightSize/2, 2*MSS)
			s.cwnd = MSS
			pkt := s.retransmitSegment(tick)
			s.mode = SlowStart
			return []Packet{pkt}
		}
		return nil
	}
	s.dupAckCount = 0
	s.advanceUna(ack.AckNum, tick)
	s.growOnNewAck()
	return nil
}

func (s *Sender) handleAckReno(ack Packet, isNew bool, tick int) []Packet {
	if s.mode == FastRecovery {
		if !isNew {
			s.dupAckCount++
			s.cwnd += MSS
			return nil
		}
		s.advanceUna(ack.AckNum, tick)
		s.cwnd = float64(s.ssthresh)
		s.mode = CongestionAvoidance
		s.dupAckCount = 0
		return nil
	}
	if !isNew {
		s.dupAckCount++
		if s.dupAckCount == 3 {
			s.ssthresh = maxInt(s.flightSize/2, 2*MSS)
			pkt := s.retransmitSegment(tick)
			s.cwnd = float64(s.ssthresh) + 3*MSS
			s.mode = FastRecovery
			return []Packet{pkt}
		}
		return nil
	}
	s.dupAckCount = 0
	s.advanceUna(ack.AckNum, tick)
	s.growOnNewAck()
	return nil
}

func (s *Sender) handleAckNewReno(ack Packet, isNew bool, tick int) []Packet {
	if s.mode == FastRecovery {
		if !isNew {
			s.dupAckCount++
			s.cwnd += MSS
			return nil
		}
		if ack.AckNum < s.recover {
			// partial ACK: retransmit, deflate, stay in FastRecovery
			acked := int(ack.AckNum - s.sndUna)
			s.advanceUna(ack.AckNum, tick)
			s.cwnd -= float64(acked)
			if s.cwnd < MSS {
				s.cwnd = MSS
			}
			pkt := s.retransmitSegment(tick)
			return []Packet{pkt}
		}
		// full ACK
		s.advanceUna(ack.AckNum, tick)
		s.cwnd = float64(s.ssthresh)
		s.mode = CongestionAvoidance
		s.dupAckCount = 0
		return nil
	}
	if !isNew {
		s.dupAckCount++
		if s.dupAckCount == 3 {
			s.ssthresh = maxInt(s.flightSize/2, 2*MSS)
			s.recover = s.sndMax
			pkt := s.retransmitSegment(tick)
			s.cwnd = float64(s.ssthresh) + 3*MSS
			s.mode = FastRecovery
			return []Packet{pkt}
		}
		return nil
	}
	s.dupAckCount = 0
	s.advanceUna(ack.AckNum, tick)
	s.growOnNewAck()
	return nil
}

// growOnNewAck applies the SlowStart/CongestionAvoidance cwnd growth rule
// for a new ACK outside of fast recovery (§4.5.2).
func (s *Sender) growOnNewAck() {
	switch s.mode {
	case SlowStart:
		s.cwnd += MSS
		if s.cwnd >= float64(s.ssthresh) {
			s.mode = CongestionAvoidance
		}
	case CongestionAvoidance:
		s.cwnd += float64(MSS*MSS) / s.cwnd
	case FastRecovery:
		// algorithm-specific handlers own cwnd changes while recovering
	}
}

// advanceUna advances snd_una to newUna, prunes the retransmission buffer,
// samples RTT from the oldest newly-acknowledged non-retransmitted
// segment (Karn's rule), and restarts or cancels the RTO timer.
func (s *Sender) advanceUna(newUna uint32, tick int) {
	sampled := false
	for len(s.retransBuffer) > 0 && s.retransBuffer[0].seq+uint32(s.retransBuffer[0].size) <= newUna {
		seg := s.retransBuffer[0]
		s.retransBuffer = s.retransBuffer[1:]
		if !seg.retransmit && !sampled {
			s.sampleRTT(float64(tick - seg.sentTick))
			sampled = true
		}
	}
	acked := int(newUna - s.sndUna)
	s.flightSize -= acked
	if s.flightSize < 0 {
		s.flightSize = 0
	}
	s.sndUna = newUna
	if s.flightSize > 0 {
		s.restartRTO(tick)
	} else {
		s.cancelRTO()
	}
}

// sampleRTT applies the standard RTT/RTO smoothing of §4.5.5.
func (s *Sender) sampleRTT(r float64) {
	if !s.haveSample {
		s.srtt = r
		s.rttvar = r / 2
		s.haveSample = true
	} else {
		s.rttvar = 0.75*s.rttvar + 0.25*math.Abs(s.srtt-r)
		s.srtt = 0.875*s.srtt + 0.125*r
	}
	s.rto = clampRTO(s.srtt + 4*s.rttvar)
}

func clampRTO(rto float64) float64 {
	if rto < minRTO {
		return minRTO
	}
	if rto > maxRTO {
		return maxRTO
	}
	return rto
}

// retransmitSegment resends the segment currently at snd_una, which is
// always the head of the retransmission buffer since ACKs are cumulative
// and segments are never split.
func (s *Sender) retransmitSegment(tick int) Packet {
	if len(s.retransBuffer) == 0 {
		// nothing outstanding to retransmit: construct a zero-length
		// marker so callers always receive a value, though this should
		// not occur for a well-formed loss episode.
		return Packet{Source: s.id, Destination: s.peer, Flags: FlagData, Seq: s.sndUna, SentTick: tick, Retransmit: true}
	}
	seg := &s.retransBuffer[0]
	seg.retransmit = true
	seg.sentTick = tick
	pkt := Packet{
		Source:      s.id,
		Destination: s.peer,
		Flags:       FlagData,
		Seq:         seg.seq,
		Size:        seg.size,
		SentTick:    tick,
		Retransmit:  true,
	}
	s.bytesTransmitted += pkt.WireSize()
	s.bytesRetransmitted += pkt.WireSize()
	if s.logger != nil {
		s.logger.Debugf("congsim: sender %s: retransmit seq=%d", s.name, pkt.Seq)
	}
	return pkt
}

// OnTimeout implements §4.5.4: halves (floored) the window, resets to one
// MSS, backs off the RTO exponentially, retransmits the oldest
// outstanding segment, and returns to slow start.
func (s *Sender) OnTimeout(tick int) Packet {
	s.ssthresh = maxInt(s.flightSize/2, 2*MSS)
	s.cwnd = MSS
	s.rto = clampRTO(s.rto * 2)
	pkt := s.retransmitSegment(tick)
	s.timeouts++
	s.mode = SlowStart
	s.dupAckCount = 0
	s.armRTO(tick)
	if s.logger != nil {
		s.logger.Warnf("congsim: sender %s: timeout at tick=%d seq=%d rto=%.2f", s.name, tick, pkt.Seq, s.rto)
	}
	return pkt
}

func (s *Sender) armRTO(tick int) {
	fireTick := tick + int(math.Ceil(s.rto))
	if err := s.timers.Arm(s.id, fireTick); err != nil && s.logger != nil {
		s.logger.Warnf("congsim: sender %s: %s", s.name, err.Error())
	}
}

func (s *Sender) restartRTO(tick int) {
	if s.timers.Armed(s.id) {
		_ = s.timers.Cancel(s.id)
	}
	s.armRTO(tick)
}

func (s *Sender) cancelRTO() {
	if s.timers.Armed(s.id) {
		_ = s.timers.Cancel(s.id)
	}
}

// effectiveWindow is min(cwnd, rwnd) - flight_size, floored at zero.
func (s *Sender) effectiveWindow() int {
	win := minInt(int(s.cwnd), s.rwnd) - s.flightSize
	if win < 0 {
		return 0
	}
	return win
}

// Accessors used by statistics collection and tests.

func (s *Sender) CWnd() float64             { return s.cwnd }
func (s *Sender) SSThresh() int             { return s.ssthresh }
func (s *Sender) FlightSize() int           { return s.flightSize }
func (s *Sender) RWND() int                 { return s.rwnd }
func (s *Sender) SndUna() uint32            { return s.sndUna }
func (s *Sender) SndNxt() uint32            { return s.sndNxt }
func (s *Sender) SndMax() uint32            { return s.sndMax }
func (s *Sender) Mode() Mode                { return s.mode }
func (s *Sender) DupAckCount() int          { return s.dupAckCount }
func (s *Sender) Algorithm() Algorithm      { return s.algorithm }
func (s *Sender) BytesTransmitted() int     { return s.bytesTransmitted }
func (s *Sender) BytesRetransmitted() int   { return s.bytesRetransmitted }
func (s *Sender) Timeouts() int             { return s.timeouts }
func (s *Sender) RetransmissionBufferLen() int { return len(s.retransBuffer) }

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
