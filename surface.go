package imagehues

import (
	"context"
	"image"
	"image/draw"
)

// DrawSurface implements Surface. It draws the bitmap onto an in-memory
// non-premultiplied RGBA image and returns its pixel buffer.
type DrawSurface struct{}

// NewDrawSurface returns DrawSurface instance.
func NewDrawSurface() *DrawSurface {
	return &DrawSurface{}
}

// Pixels implements interface Surface.
func (ds *DrawSurface) Pixels(ctx context.Context, bm *Bitmap) ([]byte, error) {
	if bm == nil || bm.Image == nil {
		return nil, ErrSurfaceUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// already in the expected layout, no copy required.
	if src, ok := bm.Image.(*image.NRGBA); ok && src.Rect.Min == (image.Point{}) &&
		src.Rect.Dx() == bm.Width && src.Rect.Dy() == bm.Height && src.Stride == 4*bm.Width {
		return src.Pix[:4*bm.Width*bm.Height], nil
	}

	bou := bm.Image.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, bm.Width, bm.Height))
	draw.Draw(img, img.Bounds(), bm.Image, bou.Min, draw.Src)

	return img.Pix, nil
}
