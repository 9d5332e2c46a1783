package dissect

import "strings"

// Render joins the summaries of every layer in r, each prefixed with its
// tier tag and separated by a blank line.
func Render(r Result) string {
	parts := make([]string, 0, len(r.Layers))
	for _, l := range r.Layers {
		parts = append(parts, l.Tier().Tag()+" "+l.Render())
	}
	return strings.Join(parts, "\n\n")
}
