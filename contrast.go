package imagehues

// contrastThreshold splits dark backgrounds (white text) from light ones (black text).
const contrastThreshold = 0.5

// LuminanceContrast implements ContrastCalculator choosing black or white
// by luminance of the background color.
type LuminanceContrast struct{}

// NewLuminanceContrast returns LuminanceContrast instance.
func NewLuminanceContrast() *LuminanceContrast {
	return &LuminanceContrast{}
}

// Calculate implements interface ContrastCalculator.
func (LuminanceContrast) Calculate(c RGB) RGB {
	if c.Luminance() < contrastThreshold {
		return White
	}
	return Black
}
