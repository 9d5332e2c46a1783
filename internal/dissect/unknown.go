package dissect

import "fmt"

// Unknown stands in for any protocol without a decoder on its tier. It
// carries the raw code for display and always has LengthUnknown, so nothing
// below it is decoded.
type Unknown struct {
	tier Tier
	// Code is the identifier the previous tier handed over.
	Code ProtocolID
	view ByteView
}

// NewUnknown returns the fallback layer for code on tier t. Network and
// transport fallbacks consume no bytes; the view only marks their position.
func NewUnknown(t Tier, v ByteView, code ProtocolID) *Unknown {
	hdr, _ := v.Head(0)
	return &Unknown{tier: t, Code: code, view: hdr}
}

func (u *Unknown) Tier() Tier                 { return u.tier }
func (u *Unknown) Protocol() ProtocolID       { return u.Code }
func (u *Unknown) ChildProtocol() ProtocolID  { return 0 }
func (u *Unknown) View() ByteView             { return u.view }
func (u *Unknown) HeaderLength() HeaderLength { return LengthUnknown }

func (u *Unknown) Name() string {
	if name, ok := ProtocolName(u.tier, u.Code); ok {
		return name
	}
	return "Unknown"
}

func (u *Unknown) Render() string {
	if name, ok := ProtocolName(u.tier, u.Code); ok {
		return fmt.Sprintf("%s Protocol (Unknown)\n\tCode: %s", name, u.formatCode())
	}
	return fmt.Sprintf("Unknown Protocol (%d)\n\tCode: %s", u.Code, u.formatCode())
}

func (u *Unknown) formatCode() string {
	if u.tier == TierTransport {
		return fmt.Sprintf("%d", u.Code)
	}
	return fmt.Sprintf("0x%04X", uint16(u.Code))
}
