package dissect

import (
	"fmt"
	"net/netip"
)

// IPv4HeaderLen is the size of an IPv4 header without options. IHL is not
// consulted.
const IPv4HeaderLen = 20

// IPv4 is a fixed-size IPv4 header.
type IPv4 struct {
	view  ByteView
	SrcIP netip.Addr
	DstIP netip.Addr
	// Proto is the protocol number at offset 9.
	Proto ProtocolID
}

// DecodeIPv4 decodes the first 20 bytes of v as an IPv4 header.
func DecodeIPv4(v ByteView) (*IPv4, error) {
	hdr, err := fixedHeader("IPv4", v, IPv4HeaderLen)
	if err != nil {
		return nil, err
	}
	return &IPv4{
		view:  hdr,
		SrcIP: netip.AddrFrom4([4]byte(hdr.Slice(12, 16))),
		DstIP: netip.AddrFrom4([4]byte(hdr.Slice(16, 20))),
		Proto: ProtocolID(hdr.Uint8At(9)),
	}, nil
}

func (ip *IPv4) Tier() Tier                 { return TierNetwork }
func (ip *IPv4) Name() string               { return "IPv4" }
func (ip *IPv4) Protocol() ProtocolID       { return EtherTypeIPv4 }
func (ip *IPv4) ChildProtocol() ProtocolID  { return ip.Proto }
func (ip *IPv4) View() ByteView             { return ip.view }
func (ip *IPv4) HeaderLength() HeaderLength { return IPv4HeaderLen }

func (ip *IPv4) Render() string {
	return fmt.Sprintf("IPv4 Protocol\n\tDIP: %s\n\tSIP: %s", ip.DstIP, ip.SrcIP)
}
