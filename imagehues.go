// Package imagehues extracts dominant colors and readable contrast colors from images.
package imagehues

import (
	"context"
	"image"
)

// Bitmap is a decoded image ready for color extraction.
//
// Width and Height are taken from the decoded image bounds. Format is the
// decoder name reported by the loader ("jpeg", "png", "svg", ...).
type Bitmap struct {
	Width  int
	Height int
	Format string
	Image  image.Image
}

// NewBitmap wraps img into Bitmap. A nil image produces a zero sized Bitmap.
func NewBitmap(img image.Image, format string) *Bitmap {
	if img == nil {
		return &Bitmap{Format: format}
	}
	b := img.Bounds()
	return &Bitmap{Width: b.Dx(), Height: b.Dy(), Format: format, Image: img}
}

// Resulter is the interface that wraps Result and Header methods.
//
// Result returns string representation of extraction result.
//
// Header returns header if output format expects header (e.g. CSV file format).
// If output format does not requires header, method implementation can return
// empty string.
type Resulter interface {
	Result() string
	Header() string
}

// Outputer is the interface that wraps Save and Close method,
//
// Save receives Resulter to be written to the output.
//
// Close flushes output buffer and closes output.
type Outputer interface {
	Save(Resulter) error
	Close() error
}

// Inputer is the interface that wraps the basic Next method.
//
// Next returns channel of image URL's read from input. Channel closes
// when input EOF is reached.
type Inputer interface {
	Next() <-chan string
}

// Loader is the interface that wraps the basic Load method.
//
// Load fetches and decodes the image addressed by url. Any failure is
// reported as *ImageLoadError.
type Loader interface {
	Load(ctx context.Context, url string) (*Bitmap, error)
}

// Surface is the interface that wraps the basic Pixels method.
//
// Pixels returns raw non-premultiplied RGBA bytes of the whole bitmap,
// 4 bytes per pixel in row-major order. It returns ErrSurfaceUnavailable
// when no pixel data can be obtained.
type Surface interface {
	Pixels(ctx context.Context, bm *Bitmap) ([]byte, error)
}

// Processor is the interface that wraps the basic Process method.
//
// Process returns up to colorCount colors of bm ordered by dominance.
// sampleSize is the pixel scan stride, 1 means every pixel.
type Processor interface {
	Process(ctx context.Context, bm *Bitmap, sampleSize, colorCount int) ([]RGB, error)
}

// ContrastCalculator is the interface that wraps the basic Calculate method.
//
// Calculate returns a color readable on top of the background color c.
type ContrastCalculator interface {
	Calculate(c RGB) RGB
}
