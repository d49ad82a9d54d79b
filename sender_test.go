package congsim

import "testing"

func newTestSender(algo Algorithm, totalData int) *Sender {
	return NewSender("s", 1, 2, algo, totalData, 65536, NewTimerRegistry(), nil)
}

func TestSenderSlowStartGrowsBySegmentOnEachNewAck(t *testing.T) {
	s := newTestSender(NewReno, 10*MSS)

	segs := s.Tick(0)
	if len(segs) != 1 {
		t.Fatalf("expected exactly one segment at cwnd=1*MSS, got %d", len(segs))
	}
	if s.Mode() != SlowStart {
		t.Fatal("expected SlowStart")
	}

	before := s.CWnd()
	s.HandleAck(Packet{AckNum: uint32(MSS), Window: 65536}, 1)
	if got, want := s.CWnd(), before+MSS; got != want {
		t.Fatalf("got cwnd=%.1f, want %.1f", got, want)
	}
	if got, want := s.SndUna(), uint32(MSS); got != want {
		t.Fatalf("got snd_una=%d, want %d", got, want)
	}
}

func TestSenderEntersCongestionAvoidanceAtSSThresh(t *testing.T) {
	s := newTestSender(NewReno, 100*MSS)
	s.ssthresh = 3 * MSS // force an early transition for the test

	s.Tick(0)
	s.HandleAck(Packet{AckNum: uint32(MSS), Window: 65536}, 1)
	if s.Mode() != SlowStart {
		t.Fatal("expected still SlowStart after first ack")
	}
	s.Tick(1)
	s.HandleAck(Packet{AckNum: uint32(2 * MSS), Window: 65536}, 2)
	if s.Mode() != CongestionAvoidance {
		t.Fatalf("expected CongestionAvoidance, got %s", s.Mode())
	}
}

func TestSenderTahoeTripleDuplicateResetsToSlowStart(t *testing.T) {
	s := newTestSender(Tahoe, 10*MSS)
	s.Tick(0) // seq 0..MSS outstanding
	s.flightSize = 3 * MSS

	var retransmits []Packet
	for i := 0; i < 3; i++ {
		retransmits = append(retransmits, s.HandleAck(Packet{AckNum: 0, Window: 65536}, 1)...)
	}
	if len(retransmits) != 1 {
		t.Fatalf("expected exactly one retransmission on the third duplicate, got %d", len(retransmits))
	}
	if retransmits[0].Seq != 0 {
		t.Fatalf("expected retransmit of seq 0, got %d", retransmits[0].Seq)
	}
	if s.Mode() != SlowStart {
		t.Fatalf("Tahoe must return to SlowStart, got %s", s.Mode())
	}
	if got, want := s.CWnd(), float64(MSS); got != want {
		t.Fatalf("got cwnd=%.1f, want %.1f", got, want)
	}
}

func TestSenderRenoFastRecoveryInflatesAndDeflates(t *testing.T) {
	s := newTestSender(Reno, 10*MSS)
	s.Tick(0)
	s.flightSize = 4 * MSS

	for i := 0; i < 3; i++ {
		s.HandleAck(Packet{AckNum: 0, Window: 65536}, 1)
	}
	if s.Mode() != FastRecovery {
		t.Fatalf("expected FastRecovery, got %s", s.Mode())
	}
	inflatedBefore := s.CWnd()

	s.HandleAck(Packet{AckNum: 0, Window: 65536}, 2) // one more duplicate: inflate
	if got, want := s.CWnd(), inflatedBefore+MSS; got != want {
		t.Fatalf("got cwnd=%.1f, want %.1f", got, want)
	}

	// a fresh ACK ends recovery, deflating to ssthresh
	ssthresh := s.SSThresh()
	s.HandleAck(Packet{AckNum: uint32(MSS), Window: 65536}, 3)
	if s.Mode() != CongestionAvoidance {
		t.Fatalf("expected CongestionAvoidance after recovery, got %s", s.Mode())
	}
	if got, want := s.CWnd(), float64(ssthresh); got != want {
		t.Fatalf("got cwnd=%.1f, want %.1f", got, want)
	}
}

func TestSenderNewRenoPartialAckStaysInRecovery(t *testing.T) {
	s := newTestSender(NewReno, 10*MSS)
	s.sndNxt = 4 * MSS
	s.sndMax = 4 * MSS
	s.flightSize = 4 * MSS
	s.retransBuffer = []segment{
		{seq: 0, size: MSS},
		{seq: MSS, size: MSS},
		{seq: 2 * MSS, size: MSS},
		{seq: 3 * MSS, size: MSS},
	}

	for i := 0; i < 3; i++ {
		s.HandleAck(Packet{AckNum: 0, Window: 65536}, 1)
	}
	if s.Mode() != FastRecovery {
		t.Fatalf("expected FastRecovery, got %s", s.Mode())
	}
	if got, want := s.recover, uint32(4*MSS); got != want {
		t.Fatalf("recover=%d, want %d", got, want)
	}

	// a partial ACK (below recover) retransmits the next hole and stays put
	retransmits := s.HandleAck(Packet{AckNum: uint32(MSS), Window: 65536}, 2)
	if len(retransmits) != 1 {
		t.Fatalf("expected one retransmission from a partial ACK, got %d", len(retransmits))
	}
	if retransmits[0].Seq != MSS {
		t.Fatalf("expected retransmit of seq %d, got %d", MSS, retransmits[0].Seq)
	}
	if s.Mode() != FastRecovery {
		t.Fatal("a partial ACK must not exit FastRecovery")
	}

	// the cumulative ACK finally reaching recover is a full ACK: exit
	s.HandleAck(Packet{AckNum: uint32(4 * MSS), Window: 65536}, 3)
	if s.Mode() != CongestionAvoidance {
		t.Fatalf("expected CongestionAvoidance after a full ACK, got %s", s.Mode())
	}
}

func TestSenderTimeoutBacksOffAndResetsWindow(t *testing.T) {
	s := newTestSender(NewReno, 10*MSS)
	s.Tick(0)
	s.flightSize = MSS
	s.cwnd = 16 * MSS

	rtoBefore := s.rto
	pkt := s.OnTimeout(1)
	if pkt.Seq != 0 {
		t.Fatalf("expected retransmit of seq 0, got %d", pkt.Seq)
	}
	if got, want := s.CWnd(), float64(MSS); got != want {
		t.Fatalf("got cwnd=%.1f, want %.1f", got, want)
	}
	if s.Mode() != SlowStart {
		t.Fatal("a timeout must return to SlowStart")
	}
	if got, want := s.rto, rtoBefore*2; got != want {
		t.Fatalf("got rto=%.2f, want %.2f", got, want)
	}
	if got, want := s.Timeouts(), 1; got != want {
		t.Fatalf("got %d timeouts, want %d", got, want)
	}
}

func TestSenderTimeoutRTOCapsAtMaximum(t *testing.T) {
	s := newTestSender(NewReno, 10*MSS)
	s.Tick(0)
	s.flightSize = MSS
	s.rto = 50

	s.OnTimeout(1)
	if got := s.rto; got > maxRTO {
		t.Fatalf("rto=%.2f exceeds the cap of %.2f", got, maxRTO)
	}
}

func TestSenderKarnsRuleSkipsRetransmittedSamples(t *testing.T) {
	s := newTestSender(NewReno, 10*MSS)
	s.Tick(0)
	s.flightSize = MSS

	s.OnTimeout(5) // marks the seq-0 segment retransmitted
	s.HandleAck(Packet{AckNum: uint32(MSS), Window: 65536}, 6)

	if s.haveSample {
		t.Fatal("a retransmitted segment must never produce an RTT sample")
	}
}

func TestSenderEffectiveWindowRespectsReceiverWindow(t *testing.T) {
	s := newTestSender(NewReno, 10*MSS)
	s.cwnd = 100 * MSS
	s.rwnd = MSS
	if got, want := s.effectiveWindow(), MSS; got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
}

func TestSenderStopsAtTotalDataBytes(t *testing.T) {
	s := newTestSender(NewReno, MSS/2)
	segs := s.Tick(0)
	if len(segs) != 1 {
		t.Fatalf("expected exactly one short segment, got %d", len(segs))
	}
	if segs[0].Size != MSS/2 {
		t.Fatalf("got size=%d, want %d", segs[0].Size, MSS/2)
	}
	if more := s.Tick(1); len(more) != 0 {
		t.Fatalf("expected no further segments once all data is outstanding, got %d", len(more))
	}
}
