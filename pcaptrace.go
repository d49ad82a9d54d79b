package congsim

//
// PCAP trace export: synthesizes IPv4/TCP frames from simulated Packets
// so a run can be inspected with ordinary packet-capture tooling
//

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// PCAPTracer writes a PCAP trace of every [Packet] handed to it,
// synthesizing an IPv4/TCP frame since the simulator itself never
// constructs real packet bytes. Endpoint identities become addresses in
// the 10.0.0.0/8 range, keyed by [EndpointID].
//
// Like the run loop, which is driven synchronously tick by tick,
// PCAPTracer writes are synchronous too: there is no background writer
// goroutine, since a simulation run has no real-time deadlines to
// protect against a slow disk.
type PCAPTracer struct {
	logger Logger
	file   *os.File
	writer *pcapgo.Writer
}

// NewPCAPTracer creates a [PCAPTracer] writing to filename, truncating
// any existing file.
func NewPCAPTracer(filename string, logger Logger) (*PCAPTracer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("congsim: PCAPTracer: %w", err)
	}
	w := pcapgo.NewWriter(file)
	const snapLen = 65535
	if err := w.WriteFileHeader(snapLen, layers.LinkTypeRaw); err != nil {
		file.Close()
		return nil, fmt.Errorf("congsim: PCAPTracer: %w", err)
	}
	return &PCAPTracer{logger: logger, file: file, writer: w}, nil
}

// Write serializes pkt as an IPv4/TCP frame and appends it to the trace.
// tick becomes the frame's timestamp, expressed as whole seconds since
// the Unix epoch, so that two runs over identical input produce
// byte-identical traces.
func (pt *PCAPTracer) Write(pkt Packet, tick int) error {
	srcIP := endpointIP(pkt.Source)
	dstIP := endpointIP(pkt.Destination)

	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolTCP,
		SrcIP:    srcIP,
		DstIP:    dstIP,
	}
	tcp := &layers.TCP{
		SrcPort: layers.TCPPort(endpointPort(pkt.Source)),
		DstPort: layers.TCPPort(endpointPort(pkt.Destination)),
		Seq:     pkt.Seq,
		Ack:     pkt.AckNum,
		Window:  clampUint16(pkt.Window),
		SYN:     pkt.Flags&FlagSyn != 0,
		FIN:     pkt.Flags&FlagFin != 0,
		ACK:     pkt.Flags&FlagAck != 0,
	}
	_ = tcp.SetNetworkLayerForChecksum(ip)

	payload := make([]byte, pkt.Size)

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, ip, tcp, gopacket.Payload(payload)); err != nil {
		return fmt.Errorf("congsim: PCAPTracer: %w", err)
	}

	ci := gopacket.CaptureInfo{
		Timestamp:     time.Unix(int64(tick), 0),
		CaptureLength: len(buf.Bytes()),
		Length:        len(buf.Bytes()),
	}
	if err := pt.writer.WritePacket(ci, buf.Bytes()); err != nil {
		if pt.logger != nil {
			pt.logger.Warnf("congsim: PCAPTracer: WritePacket: %s", err.Error())
		}
		return err
	}
	return nil
}

// Close flushes and closes the underlying file.
func (pt *PCAPTracer) Close() error {
	return pt.file.Close()
}

func endpointIP(id EndpointID) net.IP {
	return net.IPv4(10, 0, byte(id>>8), byte(id))
}

func endpointPort(id EndpointID) uint16 {
	return uint16(20000 + int(id))
}

func clampUint16(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return uint16(v)
}
