package imagehues_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/regorov/imagehues"
)

func TestIsVector(t *testing.T) {
	var tbl = []struct {
		url    string
		vector bool
	}{
		{"https://example.com/image.svg", true},
		{"https://example.com/IMAGE.SVG", true},
		{"https://example.com/svg/icon.png", true},
		{"https://example.com/my-svg-icon.png", true},
		{"https://example.com/image.jpg", false},
		{"/tmp/photo.png", false},
		{"", false},
	}

	for i := range tbl {
		if res := imagehues.IsVector(tbl[i].url); res != tbl[i].vector {
			t.Errorf("case %d failed. URL %q, got %v, expected %v", i, tbl[i].url, res, tbl[i].vector)
		}
	}
}

func TestExtractor_Extract(t *testing.T) {
	var tbl = []struct {
		name       string
		url        string
		sampleSize int
		colorCount int
		main       []string
		contrast   []string
	}{
		{name: "canonical fixture",
			url: "https://example.com/image.jpg", sampleSize: 1, colorCount: 3,
			main:     []string{"#ff0000", "#00ff00", "#0000ff"},
			contrast: []string{"#ffffff", "#000000", "#ffffff"}},
		{name: "every second pixel",
			url: "https://example.com/image.jpg", sampleSize: 2, colorCount: 2,
			main:     []string{"#ff0000", "#0000ff"},
			contrast: []string{"#ffffff", "#ffffff"}},
		{name: "zero is clamped to one",
			url: "https://example.com/image.jpg", sampleSize: 0, colorCount: 0,
			main:     []string{"#ff0000"},
			contrast: []string{"#ffffff"}},
		{name: "negative is clamped to one",
			url: "https://example.com/image.jpg", sampleSize: -5, colorCount: -5,
			main:     []string{"#ff0000"},
			contrast: []string{"#ffffff"}},
		{name: "vector by extension",
			url: "https://example.com/image.svg", sampleSize: 2, colorCount: 2,
			main:     []string{"#000000", "#333333"},
			contrast: []string{"#ffffff", "#ffffff"}},
		{name: "vector by substring",
			url: "https://example.com/SVG/image.png", sampleSize: 1, colorCount: 5,
			main:     []string{"#000000", "#333333", "#666666"},
			contrast: []string{"#ffffff", "#ffffff", "#ffffff"}},
	}

	ex := imagehues.New(imagehues.Config{Loader: newStubLoader(rgbwFixture())})
	for i := range tbl {
		res, err := ex.Extract(context.Background(), tbl[i].url, tbl[i].sampleSize, tbl[i].colorCount)
		if err != nil {
			t.Errorf("case %d (%s) failed. Unexpected error: %s", i, tbl[i].name, err)
			continue
		}
		if !hexEqual(res.MainColors, tbl[i].main) {
			t.Errorf("case %d (%s) failed. Main colors %v, expected %v", i, tbl[i].name, res.MainColors, tbl[i].main)
		}
		if !hexEqual(res.ContrastColors, tbl[i].contrast) {
			t.Errorf("case %d (%s) failed. Contrast colors %v, expected %v", i, tbl[i].name, res.ContrastColors, tbl[i].contrast)
		}
		if res.URL != tbl[i].url {
			t.Errorf("case %d (%s) failed. URL %q, expected %q", i, tbl[i].name, res.URL, tbl[i].url)
		}
	}
}

func TestExtractor_ExtremeFallback(t *testing.T) {
	ex := imagehues.New(imagehues.Config{Loader: newStubLoader(fixture(1, 1, [4]uint8{255, 255, 255, 255}))})

	res, err := ex.Extract(context.Background(), "https://example.com/white.png", 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !hexEqual(res.MainColors, []string{"#ffffff"}) || !hexEqual(res.ContrastColors, []string{"#000000"}) {
		t.Errorf("got %v / %v, expected [#ffffff] / [#000000]", res.MainColors, res.ContrastColors)
	}
}

func TestExtractor_LoadFailure(t *testing.T) {
	loader := newStubLoader(rgbwFixture())
	ex := imagehues.New(imagehues.Config{Loader: loader})

	res, err := ex.Extract(context.Background(), "https://invalid.com/image.jpg", imagehues.DefaultSampleSize, imagehues.DefaultColorCount)
	if res != nil {
		t.Errorf("unexpected result %v", res)
	}

	var le *imagehues.ImageLoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected ImageLoadError, got %v", err)
	}
	if err.Error() != "Error loading the image" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if le.URL != "https://invalid.com/image.jpg" {
		t.Errorf("unexpected URL %q", le.URL)
	}
}

func TestExtractor_ProcessorErrorPropagation(t *testing.T) {
	zero := &stubLoader{bm: &imagehues.Bitmap{Width: 0, Height: 10}}
	ex := imagehues.New(imagehues.Config{Loader: zero})

	if _, err := ex.Extract(context.Background(), "https://example.com/a.png", 1, 3); err != imagehues.ErrInvalidDimensions {
		t.Errorf("got %v, expected %v", err, imagehues.ErrInvalidDimensions)
	}

	ex = imagehues.New(imagehues.Config{
		Loader: newStubLoader(rgbwFixture()),
		Raster: imagehues.NewRasterProcessor(failingSurface{}),
	})
	if _, err := ex.Extract(context.Background(), "https://example.com/a.png", 1, 3); err != imagehues.ErrSurfaceUnavailable {
		t.Errorf("got %v, expected %v", err, imagehues.ErrSurfaceUnavailable)
	}
}

type constContrast imagehues.RGB

func (c constContrast) Calculate(imagehues.RGB) imagehues.RGB { return imagehues.RGB(c) }

type countingProcessor struct {
	calls int
	seen  [2]int
}

func (p *countingProcessor) Process(_ context.Context, _ *imagehues.Bitmap, sampleSize, colorCount int) ([]imagehues.RGB, error) {
	p.calls++
	p.seen = [2]int{sampleSize, colorCount}
	return []imagehues.RGB{0x123456}, nil
}

func TestExtractor_Overrides(t *testing.T) {
	raster, vector := &countingProcessor{}, &countingProcessor{}
	ex := imagehues.New(imagehues.Config{
		Loader:   newStubLoader(rgbwFixture()),
		Contrast: constContrast(0xABCDEF),
		Raster:   raster,
		Vector:   vector,
	})

	res, err := ex.Extract(context.Background(), "https://example.com/a.png", -1, 7)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if raster.calls != 1 || vector.calls != 0 {
		t.Errorf("raster calls %d, vector calls %d, expected 1 and 0", raster.calls, vector.calls)
	}
	if raster.seen != [2]int{1, 7} {
		t.Errorf("processor got sample size and color count %v, expected [1 7]", raster.seen)
	}
	if !hexEqual(res.MainColors, []string{"#123456"}) || !hexEqual(res.ContrastColors, []string{"#abcdef"}) {
		t.Errorf("unexpected result %v / %v", res.MainColors, res.ContrastColors)
	}

	if _, err := ex.Extract(context.Background(), "https://example.com/a.svg", 1, 1); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if raster.calls != 1 || vector.calls != 1 {
		t.Errorf("raster calls %d, vector calls %d, expected 1 and 1", raster.calls, vector.calls)
	}
}

func TestExtractor_Concurrent(t *testing.T) {
	ex := imagehues.New(imagehues.Config{Loader: newStubLoader(rgbwFixture())})

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := ex.Extract(context.Background(), "https://example.com/image.jpg", 1, 3)
			if err != nil {
				errs <- err
				return
			}
			if len(res.MainColors) != len(res.ContrastColors) || !hexEqual(res.MainColors, []string{"#ff0000", "#00ff00", "#0000ff"}) {
				errs <- errors.New("unexpected result " + res.Result())
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
