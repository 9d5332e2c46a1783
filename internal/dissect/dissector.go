package dissect

// StopReason records why a dissection ended.
type StopReason int

const (
	// StopComplete means all four tiers were decoded.
	StopComplete StopReason = iota
	// StopUnknownLength means a layer could not tell how long its header was.
	StopUnknownLength
	// StopTruncated means a fixed-size header did not fit in the frame.
	StopTruncated
	// StopExhausted means no bytes were left for the next tier.
	StopExhausted
)

func (r StopReason) String() string {
	switch r {
	case StopComplete:
		return "complete"
	case StopUnknownLength:
		return "unknown_length"
	case StopTruncated:
		return "truncated"
	case StopExhausted:
		return "exhausted"
	default:
		return "invalid"
	}
}

// Result is the outcome of dissecting one frame. Layers are in tier order and
// never skip a tier.
type Result struct {
	Layers []Layer
	Stop   StopReason
	// Err holds the *TruncatedHeaderError when Stop is StopTruncated.
	Err error
}

// Layer returns the layer decoded for tier t, if any.
func (r Result) Layer(t Tier) (Layer, bool) {
	if int(t) < 0 || int(t) >= len(r.Layers) {
		return nil, false
	}
	return r.Layers[t], true
}

// Top returns the deepest decoded layer, or nil for an empty result.
func (r Result) Top() Layer {
	if len(r.Layers) == 0 {
		return nil
	}
	return r.Layers[len(r.Layers)-1]
}

type decodeFunc func(v ByteView, code ProtocolID) (Layer, error)

// stage selects a decoder for one tier from the previous layer's child code.
type stage struct {
	tier     Tier
	decoders map[ProtocolID]decodeFunc
	fallback decodeFunc
}

func (s stage) decoder(code ProtocolID) decodeFunc {
	if fn, ok := s.decoders[code]; ok {
		return fn
	}
	return s.fallback
}

// stages lists the tiers below the link tier in decode order.
var stages = [...]stage{
	{
		tier:     TierNetwork,
		decoders: map[ProtocolID]decodeFunc{EtherTypeIPv4: decodeIPv4},
		fallback: unknownAt(TierNetwork),
	},
	{
		tier:     TierTransport,
		decoders: map[ProtocolID]decodeFunc{IPProtocolTCP: decodeTCP},
		fallback: unknownAt(TierTransport),
	},
	{
		tier:     TierApplication,
		decoders: map[ProtocolID]decodeFunc{PortHTTP: decodeHTTP},
		fallback: decodeApplication,
	},
}

func decodeIPv4(v ByteView, _ ProtocolID) (Layer, error) {
	ip, err := DecodeIPv4(v)
	if err != nil {
		return nil, err
	}
	return ip, nil
}

func decodeTCP(v ByteView, _ ProtocolID) (Layer, error) {
	tcp, err := DecodeTCP(v)
	if err != nil {
		return nil, err
	}
	return tcp, nil
}

func decodeHTTP(v ByteView, _ ProtocolID) (Layer, error) {
	return DecodeHTTP(v), nil
}

func decodeApplication(v ByteView, port ProtocolID) (Layer, error) {
	return DecodeApplication(v, port), nil
}

func unknownAt(t Tier) decodeFunc {
	return func(v ByteView, code ProtocolID) (Layer, error) {
		return NewUnknown(t, v, code), nil
	}
}

// Dissect walks f through the link, network, transport and application
// tiers. Each tier is decoded from the bytes that follow the previous
// header, using the previous layer's child code to pick a decoder. It stops
// at the first layer of unknown length, the first header that does not fit,
// or when the frame runs out before the application tier.
func Dissect(f Frame) Result {
	buf := f.Bytes()
	if len(buf) == 0 {
		return Result{Stop: StopExhausted}
	}

	rest := NewView(buf)
	link, err := DecodeEthernet(rest)
	if err != nil {
		return Result{Stop: StopTruncated, Err: err}
	}

	res := Result{Layers: make([]Layer, 0, len(stages)+1)}
	res.Layers = append(res.Layers, link)
	prev := link
	for _, st := range stages {
		hl := prev.HeaderLength()
		if !hl.Known() {
			res.Stop = StopUnknownLength
			return res
		}
		rest = rest.Advance(int(hl))
		if st.tier == TierApplication && rest.Empty() {
			res.Stop = StopExhausted
			return res
		}

		code := prev.ChildProtocol()
		layer, err := st.decoder(code)(rest, code)
		if err != nil {
			res.Stop = StopTruncated
			res.Err = err
			return res
		}
		res.Layers = append(res.Layers, layer)
		prev = layer
	}
	res.Stop = StopComplete
	return res
}
