package dissect

import "fmt"

// TCPHeaderLen is the size of a TCP header without options. The data offset
// field is not consulted.
const TCPHeaderLen = 20

// TCP is a fixed-size TCP header.
type TCP struct {
	view    ByteView
	SrcPort uint16
	DstPort uint16
}

// DecodeTCP decodes the first 20 bytes of v as a TCP header.
func DecodeTCP(v ByteView) (*TCP, error) {
	hdr, err := fixedHeader("TCP", v, TCPHeaderLen)
	if err != nil {
		return nil, err
	}
	return &TCP{
		view:    hdr,
		SrcPort: hdr.Uint16At(0),
		DstPort: hdr.Uint16At(2),
	}, nil
}

func (t *TCP) Tier() Tier                 { return TierTransport }
func (t *TCP) Name() string               { return "TCP" }
func (t *TCP) Protocol() ProtocolID       { return IPProtocolTCP }
func (t *TCP) View() ByteView             { return t.view }
func (t *TCP) HeaderLength() HeaderLength { return TCPHeaderLen }

// ChildProtocol returns the lower of the two ports, on the guess that the
// well-known side names the application protocol.
func (t *TCP) ChildProtocol() ProtocolID {
	return ProtocolID(min(t.SrcPort, t.DstPort))
}

func (t *TCP) Render() string {
	return fmt.Sprintf("TCP Protocol\n\tDPort: %d\n\tSPort: %d", t.DstPort, t.SrcPort)
}
