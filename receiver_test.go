package congsim

import "testing"

func TestReceiverInOrderDelivery(t *testing.T) {
	rv := NewReceiver("r", 65536, nil)

	ack := rv.HandleData(Packet{Seq: 0, Size: 1024}, 1, 2, 0)
	if got, want := ack.AckNum, uint32(1024); got != want {
		t.Fatalf("got ack=%d, want %d", got, want)
	}

	ack = rv.HandleData(Packet{Seq: 1024, Size: 1024}, 1, 2, 1)
	if got, want := ack.AckNum, uint32(2048); got != want {
		t.Fatalf("got ack=%d, want %d", got, want)
	}
}

func TestReceiverOutOfOrderThenFill(t *testing.T) {
	rv := NewReceiver("r", 65536, nil)

	// second segment arrives first: rcv_nxt doesn't move, and an ack for
	// the old frontier goes out, with a shrunk window
	ack := rv.HandleData(Packet{Seq: 1024, Size: 1024}, 1, 2, 0)
	if got, want := ack.AckNum, uint32(0); got != want {
		t.Fatalf("got ack=%d, want %d", got, want)
	}
	if got, want := ack.Window, 65536-1024; got != want {
		t.Fatalf("got window=%d, want %d", got, want)
	}

	// first segment arrives: both become contiguous and rcv_nxt jumps past both
	ack = rv.HandleData(Packet{Seq: 0, Size: 1024}, 1, 2, 1)
	if got, want := ack.AckNum, uint32(2048); got != want {
		t.Fatalf("got ack=%d, want %d", got, want)
	}
	if got, want := ack.Window, 65536; got != want {
		t.Fatalf("got window=%d, want %d", got, want)
	}
}

func TestReceiverDuplicateOfDeliveredData(t *testing.T) {
	rv := NewReceiver("r", 65536, nil)
	_ = rv.HandleData(Packet{Seq: 0, Size: 1024}, 1, 2, 0)

	// a retransmit of already-acked data must not move rcv_nxt backward
	ack := rv.HandleData(Packet{Seq: 0, Size: 1024}, 1, 2, 1)
	if got, want := ack.AckNum, uint32(1024); got != want {
		t.Fatalf("got ack=%d, want %d", got, want)
	}
}

func TestReceiverDetectsDuplicateAck(t *testing.T) {
	rv := NewReceiver("r", 65536, nil)
	first := rv.HandleData(Packet{Seq: 0, Size: 1024}, 1, 2, 0)

	// an out-of-order arrival that doesn't advance rcv_nxt yields a
	// duplicate ACK: the same ack number as the previous ACK
	before := rv.haveAcked
	dup := rv.HandleData(Packet{Seq: 2048, Size: 1024}, 1, 2, 1)
	if !before {
		t.Fatal("expected receiver to already have acked once")
	}
	if dup.AckNum != first.AckNum {
		t.Fatalf("got ack=%d, want duplicate of %d", dup.AckNum, first.AckNum)
	}
	if rv.RcvNxt() != 1024 {
		t.Fatalf("rcv_nxt should not have advanced, got %d", rv.RcvNxt())
	}
}
