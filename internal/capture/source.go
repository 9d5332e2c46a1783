package capture

import (
	"errors"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"layerscope/internal/dissect"
)

// ErrUnsupportedLinkType is returned for captures that are not plain Ethernet.
var ErrUnsupportedLinkType = errors.New("unsupported link type")

// Source yields captured frames in capture order. NextFrame returns io.EOF
// once the source is exhausted.
type Source interface {
	NextFrame() (dissect.Frame, error)
	Close() error
}

// CheckLinkType rejects link types the dissector cannot decode.
func CheckLinkType(lt layers.LinkType) error {
	if lt != layers.LinkTypeEthernet {
		return fmt.Errorf("%w: %s", ErrUnsupportedLinkType, lt)
	}
	return nil
}

// FrameFromCapture builds a frame from packet data and its capture metadata.
func FrameFromCapture(data []byte, ci gopacket.CaptureInfo) dissect.Frame {
	return dissect.Frame{
		Timestamp:      ci.Timestamp,
		CapturedLength: ci.CaptureLength,
		OriginalLength: ci.Length,
		Data:           data,
	}
}
