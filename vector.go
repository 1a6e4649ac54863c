package imagehues

import "context"

// vectorPalette is returned for every vector image.
var vectorPalette = [...]RGB{0x000000, 0x333333, 0x666666}

// VectorProcessor implements Processor for vector images. Vector images are not
// analysed, the processor returns a fixed grey palette truncated to colorCount.
// Callers needing real colors of a vector source have to rasterize it upstream.
type VectorProcessor struct{}

// NewVectorProcessor returns VectorProcessor instance.
func NewVectorProcessor() *VectorProcessor {
	return &VectorProcessor{}
}

// Process implements interface Processor.
func (vp *VectorProcessor) Process(_ context.Context, _ *Bitmap, _, colorCount int) ([]RGB, error) {
	if colorCount < 0 {
		colorCount = 0
	}
	if colorCount > len(vectorPalette) {
		colorCount = len(vectorPalette)
	}
	res := make([]RGB, colorCount)
	copy(res, vectorPalette[:colorCount])
	return res, nil
}
