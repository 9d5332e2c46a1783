package dissect

import (
	"net"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/require"
)

var (
	testSrcMAC = net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	testDstMAC = net.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	testSrcIP  = net.IP{10, 0, 0, 1}
	testDstIP  = net.IP{10, 0, 0, 2}
	testTime   = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

// ethIPv4TCPLen is the size of the fixed headers in an Ethernet/IPv4/TCP frame.
const ethIPv4TCPLen = EthernetHeaderLen + IPv4HeaderLen + TCPHeaderLen

func serialize(t *testing.T, ls ...gopacket.SerializableLayer) []byte {
	t.Helper()
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, ls...))
	return buf.Bytes()
}

func testEthernet(t layers.EthernetType) *layers.Ethernet {
	return &layers.Ethernet{SrcMAC: testSrcMAC, DstMAC: testDstMAC, EthernetType: t}
}

func testIPv4(proto layers.IPProtocol) *layers.IPv4 {
	return &layers.IPv4{Version: 4, IHL: 5, TTL: 64, Protocol: proto, SrcIP: testSrcIP, DstIP: testDstIP}
}

// tcpFrame builds an Ethernet/IPv4/TCP frame carrying payload.
func tcpFrame(t *testing.T, srcPort, dstPort uint16, payload []byte) []byte {
	t.Helper()
	ip := testIPv4(layers.IPProtocolTCP)
	tcp := &layers.TCP{SrcPort: layers.TCPPort(srcPort), DstPort: layers.TCPPort(dstPort), Seq: 1, Window: 1024, ACK: true}
	require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))
	return serialize(t, testEthernet(layers.EthernetTypeIPv4), ip, tcp, gopacket.Payload(payload))
}

// udpFrame builds an Ethernet/IPv4/UDP frame carrying payload.
func udpFrame(t *testing.T, payload []byte) []byte {
	t.Helper()
	ip := testIPv4(layers.IPProtocolUDP)
	udp := &layers.UDP{SrcPort: 5353, DstPort: 53}
	require.NoError(t, udp.SetNetworkLayerForChecksum(ip))
	return serialize(t, testEthernet(layers.EthernetTypeIPv4), ip, udp, gopacket.Payload(payload))
}

// vlanFrame builds an 802.1Q tagged Ethernet/IPv4/TCP frame.
func vlanFrame(t *testing.T) []byte {
	t.Helper()
	ip := testIPv4(layers.IPProtocolTCP)
	tcp := &layers.TCP{SrcPort: 40000, DstPort: 80, Window: 1024}
	require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))
	dot1q := &layers.Dot1Q{VLANIdentifier: 42, Type: layers.EthernetTypeIPv4}
	return serialize(t, testEthernet(layers.EthernetTypeDot1Q), dot1q, ip, tcp, gopacket.Payload("GET / HTTP/1.1\r\n"))
}

// handFrame is an Ethernet/IPv4/TCP frame written out byte by byte.
func handFrame(payload string) []byte {
	frame := []byte{
		// Ethernet
		0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff,
		0x00, 0x11, 0x22, 0x33, 0x44, 0x55,
		0x08, 0x00,
		// IPv4
		0x45, 0x00, 0x00, 0x30, 0x00, 0x00, 0x40, 0x00, 0x40, 0x06, 0x00, 0x00,
		0xc0, 0xa8, 0x00, 0x01,
		0xc0, 0xa8, 0x00, 0x02,
		// TCP 50000 -> 80
		0xc3, 0x50, 0x00, 0x50, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x50, 0x18, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	return append(frame, payload...)
}

func frameOf(data []byte) Frame {
	return NewFrame(testTime, data)
}

// truncatedFrame keeps the first n bytes of data as captured.
func truncatedFrame(data []byte, n int) Frame {
	return Frame{Timestamp: testTime, CapturedLength: n, OriginalLength: len(data), Data: data[:n]}
}
