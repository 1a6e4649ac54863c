package imagehues

import (
	"fmt"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB defines structure of Color. Memory representation is 0x00RRGGBB.
type RGB uint32

// Predefined colors.
const (
	Black RGB = 0x000000
	White RGB = 0xFFFFFF
)

// String returns string representation of color like #rrggbb.
func (rgb RGB) String() string {
	rgb = (rgb & 0x00FFFFFF) | 0x0F000000
	buf := []byte{'0', '0', '0', '0', '0', '0', '0': 0}
	buf = strconv.AppendUint(buf[:0], uint64(rgb), 16)
	buf[0] = '#'
	return string(buf)
}

// ToRGB converts separate R, G, B channels into RGB type. Only the low byte
// of every channel is used.
func ToRGB(r, g, b uint32) RGB {
	return RGB((r&0x00FF)<<16 | (g&0x00FF)<<8 | (b & 0x00FF))
}

// Channels returns R, G and B channels of the color.
func (rgb RGB) Channels() (r, g, b uint32) {
	return uint32(rgb>>16) & 0xFF, uint32(rgb>>8) & 0xFF, uint32(rgb) & 0xFF
}

// Luminance returns perceived brightness of the color in range [0, 1],
// (0.299*R + 0.587*G + 0.114*B) / 255.
func (rgb RGB) Luminance() float64 {
	r, g, b := rgb.Channels()
	return luminance(r, g, b)
}

func luminance(r, g, b uint32) float64 {
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
}

// ParseRGB parses hex color notation "#rrggbb" (or short "#rgb").
func ParseRGB(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return ToRGB(uint32(r), uint32(g), uint32(b)), nil
}

// MarshalText implements encoding.TextMarshaler, color is encoded as #rrggbb.
func (rgb RGB) MarshalText() ([]byte, error) {
	return []byte(rgb.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (rgb *RGB) UnmarshalText(text []byte) error {
	c, err := ParseRGB(string(text))
	if err != nil {
		return err
	}
	*rgb = c
	return nil
}

// Hex converts colors into their #rrggbb representation.
func Hex(colors []RGB) []string {
	s := make([]string, len(colors))
	for i := range colors {
		s[i] = colors[i].String()
	}
	return s
}
