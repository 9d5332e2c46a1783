package dissect

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tiersOf(r Result) []Tier {
	var tiers []Tier
	for _, l := range r.Layers {
		tiers = append(tiers, l.Tier())
	}
	return tiers
}

func TestDissectHTTPFrame(t *testing.T) {
	frame := tcpFrame(t, 51000, 80, []byte("GET /index.html HTTP/1.1\r\nHost: example\r\n\r\n"))
	res := Dissect(frameOf(frame))

	require.Len(t, res.Layers, 4)
	assert.Equal(t, StopComplete, res.Stop)
	assert.NoError(t, res.Err)
	assert.IsType(t, &Ethernet{}, res.Layers[0])
	assert.IsType(t, &IPv4{}, res.Layers[1])
	assert.IsType(t, &TCP{}, res.Layers[2])

	app, ok := res.Layers[3].(*Application)
	require.True(t, ok, "got %T", res.Layers[3])
	assert.True(t, app.HTTP)
	assert.Equal(t, PortHTTP, app.Port)
	assert.Equal(t, ethIPv4TCPLen, app.View().Offset())
	assert.Equal(t, len(frame)-ethIPv4TCPLen, app.View().Len())
	assert.Equal(t, "GET /index.html HTTP/1.1", string(app.Payload()[:24]))
}

func TestDissectVLANStopsAtLink(t *testing.T) {
	res := Dissect(frameOf(vlanFrame(t)))

	require.Len(t, res.Layers, 1)
	assert.Equal(t, StopUnknownLength, res.Stop)
	unk, ok := res.Layers[0].(*Unknown)
	require.True(t, ok, "got %T", res.Layers[0])
	assert.Equal(t, TierLink, unk.Tier())
	assert.Equal(t, EtherTypeVLAN, unk.Code)
}

func TestDissectUDPStopsAtTransport(t *testing.T) {
	res := Dissect(frameOf(udpFrame(t, []byte("dns query"))))

	require.Len(t, res.Layers, 3)
	assert.Equal(t, StopUnknownLength, res.Stop)
	assert.IsType(t, &Ethernet{}, res.Layers[0])
	assert.IsType(t, &IPv4{}, res.Layers[1])
	unk, ok := res.Layers[2].(*Unknown)
	require.True(t, ok, "got %T", res.Layers[2])
	assert.Equal(t, TierTransport, unk.Tier())
	assert.Equal(t, IPProtocolUDP, unk.Code)
	assert.Equal(t, ethIPv4TCPLen-TCPHeaderLen, unk.View().Offset())
}

func TestDissectLowerPortSelectsApplication(t *testing.T) {
	res := Dissect(frameOf(tcpFrame(t, 22, 80, []byte("SSH-2.0-OpenSSH_9.6\r\n"))))

	require.Len(t, res.Layers, 4)
	tcp := res.Layers[2].(*TCP)
	assert.Equal(t, ProtocolID(22), tcp.ChildProtocol())

	app := res.Layers[3].(*Application)
	assert.False(t, app.HTTP)
	assert.Equal(t, ProtocolID(22), app.Port)
	assert.Equal(t, "SSH", app.Name())
}

func TestDissectHTTPSIsRawApplication(t *testing.T) {
	res := Dissect(frameOf(tcpFrame(t, 443, 52000, []byte{0x16, 0x03, 0x01, 0x02, 0x00, 0x01, 0x00})))

	require.Len(t, res.Layers, 4)
	app := res.Layers[3].(*Application)
	assert.False(t, app.HTTP)
	assert.Equal(t, PortHTTPS, app.Port)
	assert.Equal(t, "HTTPS", app.Name())
}

func TestDissectUnknownNetwork(t *testing.T) {
	frame := handFrame("")
	frame[12], frame[13] = 0x08, 0x06

	res := Dissect(frameOf(frame))
	require.Len(t, res.Layers, 2)
	assert.Equal(t, StopUnknownLength, res.Stop)
	unk := res.Layers[1].(*Unknown)
	assert.Equal(t, TierNetwork, unk.Tier())
	assert.Equal(t, EtherTypeARP, unk.Code)
	assert.Equal(t, EthernetHeaderLen, unk.View().Offset())
}

func TestDissectEmptyFrame(t *testing.T) {
	res := Dissect(Frame{Timestamp: testTime})
	assert.Empty(t, res.Layers)
	assert.NoError(t, res.Err)
	assert.Nil(t, res.Top())
	assert.Equal(t, "", Render(res))
}

func TestDissectTruncation(t *testing.T) {
	full := tcpFrame(t, 40000, 80, []byte("GET / HTTP/1.1\r\n\r\n"))
	tests := []struct {
		captured int
		tiers    []Tier
		stop     StopReason
	}{
		{0, nil, StopExhausted},
		{10, nil, StopTruncated},
		{14, []Tier{TierLink}, StopTruncated},
		{33, []Tier{TierLink}, StopTruncated},
		{34, []Tier{TierLink, TierNetwork}, StopTruncated},
		{53, []Tier{TierLink, TierNetwork}, StopTruncated},
		{54, []Tier{TierLink, TierNetwork, TierTransport}, StopExhausted},
		{55, []Tier{TierLink, TierNetwork, TierTransport, TierApplication}, StopComplete},
	}
	for _, tt := range tests {
		res := Dissect(truncatedFrame(full, tt.captured))
		assert.Equal(t, tt.tiers, tiersOf(res), "captured %d", tt.captured)
		assert.Equal(t, tt.stop, res.Stop, "captured %d", tt.captured)
		if tt.stop == StopTruncated {
			assert.ErrorIs(t, res.Err, ErrTruncatedHeader, "captured %d", tt.captured)
		}
	}
}

func TestDissectTruncatedApplicationUsesCapturedLength(t *testing.T) {
	full := tcpFrame(t, 40000, 80, make([]byte, 100))
	res := Dissect(truncatedFrame(full, 64))

	require.Len(t, res.Layers, 4)
	assert.Equal(t, 64-ethIPv4TCPLen, res.Layers[3].View().Len())
}

func TestDissectIsIdempotent(t *testing.T) {
	frame := frameOf(tcpFrame(t, 1234, 80, []byte("GET / HTTP/1.0\r\n\r\n")))
	first := Dissect(frame)
	second := Dissect(frame)

	assert.Equal(t, first, second)
	assert.Equal(t, Render(first), Render(second))
}

// checkInvariants asserts the tier prefix and byte view rules for res.
func checkInvariants(t *testing.T, f Frame, res Result) {
	t.Helper()
	captured := len(f.Bytes())
	require.LessOrEqual(t, len(res.Layers), 4)
	next := 0
	for i, l := range res.Layers {
		require.Equal(t, Tier(i), l.Tier(), "layer %d", i)
		v := l.View()
		require.Equal(t, next, v.Offset(), "layer %d is not contiguous", i)
		require.LessOrEqual(t, v.End(), captured, "layer %d runs past the capture", i)
		if i < len(res.Layers)-1 {
			require.True(t, l.HeaderLength().Known(), "layer %d has unknown length but is not last", i)
			next = v.Offset() + int(l.HeaderLength())
		}
		_ = l.Render()
	}
}

func TestDissectRandomFrames(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seeds := [][]byte{
		handFrame("GET / HTTP/1.1\r\n"),
		tcpFrame(t, 22, 80, []byte("banner")),
		udpFrame(t, []byte("query")),
		vlanFrame(t),
	}
	for i := 0; i < 2000; i++ {
		var data []byte
		if i%2 == 0 {
			seed := seeds[rng.Intn(len(seeds))]
			data = append([]byte(nil), seed[:rng.Intn(len(seed)+1)]...)
			if len(data) > 0 {
				data[rng.Intn(len(data))] = byte(rng.Intn(256))
			}
		} else {
			data = make([]byte, rng.Intn(80))
			rng.Read(data)
		}
		f := frameOf(data)
		res := Dissect(f)
		checkInvariants(t, f, res)
		assert.Equal(t, res, Dissect(f))
	}
}

func TestResultLayer(t *testing.T) {
	res := Dissect(frameOf(udpFrame(t, []byte("payload"))))

	l, ok := res.Layer(TierNetwork)
	require.True(t, ok)
	assert.Equal(t, "IPv4", l.Name())

	_, ok = res.Layer(TierApplication)
	assert.False(t, ok)
	assert.Equal(t, TierTransport, res.Top().Tier())
}
