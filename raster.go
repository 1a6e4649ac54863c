package imagehues

import "context"

// RasterProcessor implements Processor for bitmap images. It samples every
// sampleSize-th pixel, quantizes colors and ranks them by frequency, leaving
// out near-black and near-white colors unless nothing else is left.
type RasterProcessor struct {
	surface Surface
}

// NewRasterProcessor returns new instance of RasterProcessor. If s is nil,
// DrawSurface is used.
func NewRasterProcessor(s Surface) *RasterProcessor {
	if s == nil {
		s = NewDrawSurface()
	}
	return &RasterProcessor{surface: s}
}

// Process implements interface Processor.
func (rp *RasterProcessor) Process(ctx context.Context, bm *Bitmap, sampleSize, colorCount int) ([]RGB, error) {
	if bm == nil || bm.Width <= 0 || bm.Height <= 0 {
		return nil, ErrInvalidDimensions
	}

	if sampleSize < 1 {
		sampleSize = 1
	}
	if colorCount < 1 {
		colorCount = 1
	}

	pix, err := rp.surface.Pixels(ctx, bm)
	if err != nil {
		return nil, err
	}

	table := newFrequencyTable(1024)

	// Pix holds the image's pixels, in R, G, B, A order.
	for i := 0; i+3 < len(pix); i += 4 * sampleSize {
		if pix[i+3] < opaqueThreshold {
			continue
		}
		table.add(Quantize(pix[i], pix[i+1], pix[i+2]))
	}

	return table.top(colorCount, IsExtreme), nil
}
