package dissect

import (
	"fmt"
	"slices"
	"strings"
)

// previewBytes is how much of an application payload a report shows.
const previewBytes = 10

// Application is the terminal tier: the bytes left in the frame after the
// transport header, tagged with the port that selected it.
type Application struct {
	view ByteView
	Port ProtocolID
	// HTTP is set when the port dispatched to the HTTP classifier.
	HTTP bool
}

// DecodeApplication wraps the rest of the frame as an untyped payload.
func DecodeApplication(v ByteView, port ProtocolID) *Application {
	return &Application{view: v, Port: port}
}

// DecodeHTTP wraps the rest of the frame as an HTTP payload.
func DecodeHTTP(v ByteView) *Application {
	return &Application{view: v, Port: PortHTTP, HTTP: true}
}

func (a *Application) Tier() Tier                 { return TierApplication }
func (a *Application) Protocol() ProtocolID       { return a.Port }
func (a *Application) ChildProtocol() ProtocolID  { return 0 }
func (a *Application) View() ByteView             { return a.view }
func (a *Application) HeaderLength() HeaderLength { return HeaderLength(a.view.Len()) }

// Payload returns the application bytes.
func (a *Application) Payload() []byte { return a.view.Bytes() }

func (a *Application) Name() string {
	if a.HTTP {
		return "HTTP"
	}
	if name, ok := ProtocolName(TierApplication, a.Port); ok {
		return name
	}
	return "Unknown"
}

func (a *Application) Render() string {
	var sb strings.Builder
	switch name, ok := ProtocolName(TierApplication, a.Port); {
	case a.HTTP:
		sb.WriteString("HTTP Protocol\n")
	case ok:
		fmt.Fprintf(&sb, "%s Protocol (Unknown)\n", name)
	default:
		fmt.Fprintf(&sb, "Unknown Protocol (%d)\n", a.Port)
	}
	fmt.Fprintf(&sb, "\t%dbyte\n", a.view.Len())
	sb.WriteString(hexPreview(a.Payload(), previewBytes))
	if a.HTTP {
		if line, ok := httpStartLine(a.Payload()); ok {
			fmt.Fprintf(&sb, "\n\tLine: %s", line)
		}
	}
	return sb.String()
}

// hexPreview renders up to limit bytes as tab-indented hex in groups of five,
// ten to a line, with a trailing "..." when data is longer than limit.
func hexPreview(data []byte, limit int) string {
	var sb strings.Builder
	for i := 0; i < limit && i < len(data); i++ {
		switch {
		case i == 0:
			sb.WriteByte('\t')
		case i%10 == 0:
			sb.WriteString("\n\t")
		case i%5 == 0:
			sb.WriteString("  ")
		}
		if i%5 != 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", data[i])
	}
	if len(data) > limit {
		sb.WriteString(" ...")
	}
	return sb.String()
}

var httpPrefixes = []string{"GET ", "POST", "PUT ", "DELE", "HEAD", "HTTP", "PATC", "OPTI"}

// httpStartLine returns the request or status line of a payload that looks
// like HTTP. Only the bytes of this one segment are examined.
func httpStartLine(data []byte) (string, bool) {
	if len(data) < 4 {
		return "", false
	}
	if !slices.Contains(httpPrefixes, string(data[:4])) {
		return "", false
	}
	line, _, _ := strings.Cut(string(data), "\r\n")
	return line, true
}
