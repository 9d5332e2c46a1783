package dissect

import (
	"errors"
	"fmt"
)

// ErrTruncatedHeader is matched by every *TruncatedHeaderError.
var ErrTruncatedHeader = errors.New("truncated header")

// TruncatedHeaderError reports a fixed-size header that does not fit in the
// bytes left in the frame.
type TruncatedHeaderError struct {
	Protocol string
	Offset   int
	Need     int
	Have     int
}

func (e *TruncatedHeaderError) Error() string {
	return fmt.Sprintf("%s header at offset %d: need %d bytes, have %d", e.Protocol, e.Offset, e.Need, e.Have)
}

// Is makes errors.Is(err, ErrTruncatedHeader) succeed.
func (e *TruncatedHeaderError) Is(target error) bool {
	return target == ErrTruncatedHeader
}

// fixedHeader returns the first n bytes of v or a *TruncatedHeaderError.
func fixedHeader(protocol string, v ByteView, n int) (ByteView, error) {
	hdr, ok := v.Head(n)
	if !ok {
		return ByteView{}, &TruncatedHeaderError{Protocol: protocol, Offset: v.Offset(), Need: n, Have: v.Len()}
	}
	return hdr, nil
}
