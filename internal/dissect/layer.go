// Package dissect decodes captured Ethernet frames one protocol tier at a time
// and renders the decoded layers as text.
package dissect

import "fmt"

// ProtocolID identifies a protocol within one tier: an EtherType on the link
// tier, an IP protocol number on the network tier and a port on the transport
// tier. Values are only comparable within the same tier.
type ProtocolID uint16

// Tier is one of the four decode stages.
type Tier int

const (
	TierLink Tier = iota
	TierNetwork
	TierTransport
	TierApplication
)

// Tag returns the short tier label used in reports.
func (t Tier) Tag() string {
	switch t {
	case TierLink:
		return "[L2]"
	case TierNetwork:
		return "[L3]"
	case TierTransport:
		return "[L4]"
	case TierApplication:
		return "[L7]"
	default:
		return fmt.Sprintf("[tier %d]", int(t))
	}
}

func (t Tier) String() string {
	switch t {
	case TierLink:
		return "link"
	case TierNetwork:
		return "network"
	case TierTransport:
		return "transport"
	case TierApplication:
		return "application"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// HeaderLength is a header size in bytes, or LengthUnknown.
type HeaderLength int

// LengthUnknown means the header size cannot be determined. No tier below a
// layer with this length is decoded.
const LengthUnknown HeaderLength = -1

// Known reports whether l is a concrete byte count.
func (l HeaderLength) Known() bool { return l >= 0 }

func (l HeaderLength) String() string {
	if !l.Known() {
		return "unknown"
	}
	return fmt.Sprintf("%d", int(l))
}

// Layer is implemented by every decoded protocol layer. The dissector and the
// renderer only ever go through this interface.
type Layer interface {
	Tier() Tier
	// Name is a short protocol name such as "Ethernet" or "TCP".
	Name() string
	// Protocol is the code this layer was dispatched on.
	Protocol() ProtocolID
	// ChildProtocol selects the decoder for the next tier.
	ChildProtocol() ProtocolID
	// View is the bytes this layer consumed.
	View() ByteView
	HeaderLength() HeaderLength
	// Render returns a multi-line summary built only from View.
	Render() string
}
