package imagehues

import "sort"

const (
	// quantStep is the channel bucket width.
	quantStep = 10

	// opaqueThreshold is the minimal alpha of a pixel taken into account.
	opaqueThreshold = 128

	// extreme colors are near-black or near-white by luminance.
	extremeLow  = 0.1
	extremeHigh = 0.9
)

// quantizeChannel rounds channel value to the nearest multiple of quantStep
// (half up). 255 rounds to 260 and is clamped back to 255.
func quantizeChannel(c uint8) uint32 {
	q := (uint32(c) + quantStep/2) / quantStep * quantStep
	if q > 0xFF {
		q = 0xFF
	}
	return q
}

// Quantize merges near-identical colors into one bucket color.
func Quantize(r, g, b uint8) RGB {
	return ToRGB(quantizeChannel(r), quantizeChannel(g), quantizeChannel(b))
}

// IsExtreme reports whether color is near-black or near-white.
func IsExtreme(c RGB) bool {
	l := c.Luminance()
	return l > extremeHigh || l < extremeLow
}

type colorCount struct {
	color RGB
	count uint32
}

// frequencyTable counts colors and remembers the order colors were seen first.
type frequencyTable struct {
	index   map[RGB]int
	entries []colorCount
}

func newFrequencyTable(hint int) *frequencyTable {
	return &frequencyTable{index: make(map[RGB]int, hint)}
}

func (t *frequencyTable) add(c RGB) {
	if i, ok := t.index[c]; ok {
		t.entries[i].count++
		return
	}
	t.index[c] = len(t.entries)
	t.entries = append(t.entries, colorCount{color: c, count: 1})
}

func (t *frequencyTable) len() int {
	return len(t.entries)
}

// ranked returns entries by descending count. Equal counts keep the scan order
// in which the colors were first met.
func (t *frequencyTable) ranked() []colorCount {
	r := make([]colorCount, len(t.entries))
	copy(r, t.entries)
	sort.SliceStable(r, func(i, j int) bool { return r[i].count > r[j].count })
	return r
}

// top returns up to n most frequent colors skipping those rejected by exclude.
// If exclude rejects everything, the top n of all colors are returned.
func (t *frequencyTable) top(n int, exclude func(RGB) bool) []RGB {
	ranked := t.ranked()

	res := make([]RGB, 0, n)
	for i := 0; i < len(ranked) && len(res) < n; i++ {
		if exclude != nil && exclude(ranked[i].color) {
			continue
		}
		res = append(res, ranked[i].color)
	}
	if len(res) > 0 {
		return res
	}

	for i := 0; i < len(ranked) && len(res) < n; i++ {
		res = append(res, ranked[i].color)
	}
	return res
}
