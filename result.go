package imagehues

import (
	"fmt"
	"strings"
)

// Result implements interface Resulter.
// MainColors are ordered by descending frequency, ContrastColors[i] is
// readable on top of MainColors[i].
type Result struct {
	URL            string `json:"url,omitempty"`
	MainColors     []RGB  `json:"mainColors"`
	ContrastColors []RGB  `json:"contrastColors"`
}

// Result returns a string in CSV format: "URL","main colors","contrast colors".
// Colors inside a column are separated by space.
func (r *Result) Result() string {
	return fmt.Sprintf("\"%s\",\"%s\",\"%s\"\n", strings.ReplaceAll(r.URL, "\"", "\"\""),
		strings.Join(Hex(r.MainColors), " "),
		strings.Join(Hex(r.ContrastColors), " "))
}

// Header returns header in CSV format.
func (r *Result) Header() string {
	return "\"url\",\"main_colors\",\"contrast_colors\"\n"
}

// String returns human readable multi-line representation of the result.
func (r *Result) String() string {
	var sb strings.Builder
	for i := range r.MainColors {
		fmt.Fprintf(&sb, "%2d: %s on %s\n", i+1, r.MainColors[i], r.ContrastColors[i])
	}
	return sb.String()
}
