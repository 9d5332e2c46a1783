package models

// FrameReport is one dissected frame as sent to clients.
type FrameReport struct {
	Number         int            `json:"number"`
	Timestamp      string         `json:"timestamp"`
	CapturedLength int            `json:"capturedLength"`
	OriginalLength int            `json:"originalLength"`
	Protocol       string         `json:"protocol"`
	Stop           string         `json:"stop"`
	StopDetail     string         `json:"stopDetail,omitempty"`
	Layers         []LayerSummary `json:"layers"`
	Text           string         `json:"text"`
	HexDump        string         `json:"hexDump,omitempty"`
}

// LayerSummary describes one decoded layer and where it sits in the frame.
type LayerSummary struct {
	Tier          string `json:"tier"`
	Name          string `json:"name"`
	Protocol      uint16 `json:"protocol"`
	ChildProtocol uint16 `json:"childProtocol"`
	Offset        int    `json:"offset"`
	Length        int    `json:"length"`
	// HeaderLength is -1 when the layer's length is unknown.
	HeaderLength int `json:"headerLength"`
}
