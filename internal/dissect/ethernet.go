package dissect

import (
	"fmt"
	"strings"
)

// EthernetHeaderLen is the size of an untagged Ethernet II header.
const EthernetHeaderLen = 14

// Ethernet is an Ethernet II header whose type field names a network protocol.
type Ethernet struct {
	view      ByteView
	DstMAC    []byte
	SrcMAC    []byte
	EtherType ProtocolID
}

// DecodeEthernet decodes the link tier. A type field that is an 802.3 length
// or a VLAN tag yields an unknown link layer, which ends the dissection.
func DecodeEthernet(v ByteView) (Layer, error) {
	hdr, err := fixedHeader("Ethernet", v, EthernetHeaderLen)
	if err != nil {
		return nil, err
	}
	etherType := ProtocolID(hdr.Uint16At(12))
	if etherType <= etherTypeMin || etherType == EtherTypeVLAN {
		return &Unknown{tier: TierLink, Code: etherType, view: hdr}, nil
	}
	return &Ethernet{
		view:      hdr,
		DstMAC:    hdr.Slice(0, 6),
		SrcMAC:    hdr.Slice(6, 12),
		EtherType: etherType,
	}, nil
}

func (e *Ethernet) Tier() Tier                 { return TierLink }
func (e *Ethernet) Name() string               { return "Ethernet" }
func (e *Ethernet) Protocol() ProtocolID       { return LinkTypeEthernet }
func (e *Ethernet) ChildProtocol() ProtocolID  { return e.EtherType }
func (e *Ethernet) View() ByteView             { return e.view }
func (e *Ethernet) HeaderLength() HeaderLength { return EthernetHeaderLen }

func (e *Ethernet) Render() string {
	var sb strings.Builder
	sb.WriteString("ETHERNET Protocol\n")
	fmt.Fprintf(&sb, "\tDMAC: %s\n", formatMAC(e.DstMAC))
	fmt.Fprintf(&sb, "\tSMAC: %s", formatMAC(e.SrcMAC))
	return sb.String()
}

func formatMAC(mac []byte) string {
	parts := make([]string, len(mac))
	for i, b := range mac {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, ":")
}
