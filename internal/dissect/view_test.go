package dissect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewHeadAndAdvance(t *testing.T) {
	buf := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	v := NewView(buf)

	head, ok := v.Head(3)
	require.True(t, ok)
	assert.Equal(t, 0, head.Offset())
	assert.Equal(t, []byte{0, 1, 2}, head.Bytes())

	_, ok = v.Head(9)
	assert.False(t, ok)

	rest := v.Advance(3)
	assert.Equal(t, 3, rest.Offset())
	assert.Equal(t, 5, rest.Len())
	assert.Equal(t, 8, rest.End())
	assert.Equal(t, uint8(3), rest.Uint8At(0))
	assert.Equal(t, uint16(0x0405), rest.Uint16At(1))
	assert.Equal(t, []byte{5, 6}, rest.Slice(2, 4))

	end := rest.Advance(100)
	assert.True(t, end.Empty())
	assert.Equal(t, 8, end.Offset())
}

func TestViewBytesDoesNotCopy(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	v := NewView(buf).Advance(1)
	v.Bytes()[0] = 0xff
	assert.Equal(t, byte(0xff), buf[1])

	// Appending to a view's bytes must not write past the view.
	head, _ := NewView(buf).Head(2)
	_ = append(head.Bytes(), 9)
	assert.Equal(t, byte(0xff), buf[1])
	assert.Equal(t, byte(3), buf[2])
}

func TestFrameBytes(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	assert.Len(t, Frame{CapturedLength: 2, Data: data}.Bytes(), 2)
	assert.Len(t, Frame{CapturedLength: 10, Data: data}.Bytes(), 4)
	assert.Empty(t, Frame{CapturedLength: -1, Data: data}.Bytes())
	assert.Empty(t, Frame{}.Bytes())

	assert.True(t, Frame{CapturedLength: 2, OriginalLength: 4}.Truncated())
	assert.False(t, NewFrame(testTime, data).Truncated())
}
