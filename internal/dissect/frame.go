package dissect

import "time"

// Frame is one captured link-layer frame.
type Frame struct {
	Timestamp time.Time
	// CapturedLength is the number of bytes in Data that were captured.
	CapturedLength int
	// OriginalLength is the frame's length on the wire. It may exceed
	// CapturedLength when the capture was truncated by a snap length.
	OriginalLength int
	Data           []byte
}

// NewFrame returns a frame whose captured and original lengths equal len(data).
func NewFrame(ts time.Time, data []byte) Frame {
	return Frame{Timestamp: ts, CapturedLength: len(data), OriginalLength: len(data), Data: data}
}

// Bytes returns the captured bytes.
func (f Frame) Bytes() []byte {
	n := min(max(f.CapturedLength, 0), len(f.Data))
	return f.Data[:n:n]
}

// Truncated reports whether fewer bytes were captured than were on the wire.
func (f Frame) Truncated() bool {
	return f.CapturedLength < f.OriginalLength
}
