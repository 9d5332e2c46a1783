package dissect

import "encoding/binary"

// ByteView is a window over a frame buffer. It never copies the underlying bytes.
type ByteView struct {
	buf    []byte
	offset int
	length int
}

// NewView returns a view covering all of buf.
func NewView(buf []byte) ByteView {
	return ByteView{buf: buf, length: len(buf)}
}

// Offset returns the position of the view inside the frame buffer.
func (v ByteView) Offset() int { return v.offset }

// Len returns the number of bytes in the view.
func (v ByteView) Len() int { return v.length }

// End returns the offset one past the last byte of the view.
func (v ByteView) End() int { return v.offset + v.length }

// Bytes returns the viewed bytes as a sub-slice of the frame buffer.
func (v ByteView) Bytes() []byte {
	return v.buf[v.offset:v.End():v.End()]
}

// Head returns the first n bytes of the view, or ok=false if fewer are available.
func (v ByteView) Head(n int) (ByteView, bool) {
	if n < 0 || n > v.length {
		return ByteView{}, false
	}
	return ByteView{buf: v.buf, offset: v.offset, length: n}, true
}

// Advance returns the view that starts n bytes later and runs to the end of v.
// Advancing past the end yields an empty view positioned at End.
func (v ByteView) Advance(n int) ByteView {
	if n < 0 {
		n = 0
	}
	if n > v.length {
		n = v.length
	}
	return ByteView{buf: v.buf, offset: v.offset + n, length: v.length - n}
}

// Empty reports whether the view holds no bytes.
func (v ByteView) Empty() bool { return v.length == 0 }

// Uint8At reads the byte at i, relative to the start of the view.
// Callers must have checked the length with Head.
func (v ByteView) Uint8At(i int) uint8 {
	return v.buf[v.offset+i]
}

// Uint16At reads a big-endian uint16 at i, relative to the start of the view.
func (v ByteView) Uint16At(i int) uint16 {
	return binary.BigEndian.Uint16(v.buf[v.offset+i : v.offset+i+2])
}

// Slice returns bytes [from, to) of the view.
func (v ByteView) Slice(from, to int) []byte {
	return v.buf[v.offset+from : v.offset+to : v.offset+to]
}
