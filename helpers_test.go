package imagehues_test

import (
	"context"
	"errors"
	"image"
	"strings"
	"sync/atomic"

	"github.com/regorov/imagehues"
)

// fixture builds NRGBA image from RGBA quadruples given in row-major order.
func fixture(w, h int, px ...[4]uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, p := range px {
		copy(img.Pix[i*4:], p[:])
	}
	return img
}

// rgbwFixture is 2x2 image with red, green, blue and white opaque pixels.
func rgbwFixture() *image.NRGBA {
	return fixture(2, 2,
		[4]uint8{255, 0, 0, 255},
		[4]uint8{0, 255, 0, 255},
		[4]uint8{0, 0, 255, 255},
		[4]uint8{255, 255, 255, 255})
}

// stubLoader returns the same bitmap for every URL except URLs
// containing "invalid", which fail to load.
type stubLoader struct {
	bm    *imagehues.Bitmap
	calls int32
}

func newStubLoader(img image.Image) *stubLoader {
	return &stubLoader{bm: imagehues.NewBitmap(img, "png")}
}

func (s *stubLoader) Load(_ context.Context, url string) (*imagehues.Bitmap, error) {
	atomic.AddInt32(&s.calls, 1)
	if strings.Contains(url, "invalid") {
		return nil, &imagehues.ImageLoadError{URL: url, Err: errors.New("http code 404")}
	}
	return s.bm, nil
}

type failingSurface struct{}

func (failingSurface) Pixels(context.Context, *imagehues.Bitmap) ([]byte, error) {
	return nil, imagehues.ErrSurfaceUnavailable
}

func hexEqual(got []imagehues.RGB, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i].String() != want[i] {
			return false
		}
	}
	return true
}
