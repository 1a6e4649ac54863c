package imagehues

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultSampleSize is the default pixel scan stride.
	DefaultSampleSize = 10

	// DefaultColorCount is the default amount of extracted colors.
	DefaultColorCount = 3
)

// Config holds collaborators of Extractor. Every nil field is replaced
// by its default implementation.
type Config struct {
	Loader   Loader
	Contrast ContrastCalculator
	Raster   Processor
	Vector   Processor
	Logger   *zerolog.Logger
}

// Extractor implements core logic orchestration functionality.
// It loads image with Loader, chooses raster or vector Processor by the image URL
// and calculates contrast color for every extracted color.
// Extractor does not keep state between calls and is safe for concurrent use
// as long as its collaborators are.
type Extractor struct {
	loader   Loader
	contrast ContrastCalculator
	raster   Processor
	vector   Processor
	log      zerolog.Logger
}

// New returns new instance of Extractor wired with collaborators from cfg.
func New(cfg Config) *Extractor {
	l := zerolog.Nop()
	if cfg.Logger != nil {
		l = *cfg.Logger
	}

	ex := &Extractor{
		loader:   cfg.Loader,
		contrast: cfg.Contrast,
		raster:   cfg.Raster,
		vector:   cfg.Vector,
		log:      l.With().Str("component", "extractor").Logger(),
	}
	if ex.loader == nil {
		ex.loader = NewSmartLoader(l)
	}
	if ex.contrast == nil {
		ex.contrast = NewLuminanceContrast()
	}
	if ex.raster == nil {
		ex.raster = NewRasterProcessor(nil)
	}
	if ex.vector == nil {
		ex.vector = NewVectorProcessor()
	}
	return ex
}

// NewDefault returns Extractor with default collaborators.
func NewDefault() *Extractor {
	return New(Config{})
}

// DominantColors extracts colors of the image addressed by imageURL using
// default collaborators.
func DominantColors(ctx context.Context, imageURL string, sampleSize, colorCount int) (*Result, error) {
	return NewDefault().Extract(ctx, imageURL, sampleSize, colorCount)
}

// IsVector reports whether imageURL is treated as a vector image. The decision is
// made by URL only: it ends with ".svg" or contains "svg" anywhere, case-insensitive.
// URLs like ".../my-svg-icon.png" are knowingly treated as vector.
func IsVector(imageURL string) bool {
	u := strings.ToLower(imageURL)
	return strings.HasSuffix(u, ".svg") || strings.Contains(u, "svg")
}

// Extract loads image addressed by imageURL and returns up to colorCount dominant
// colors together with their contrast colors. sampleSize and colorCount less than 1
// are treated as 1. Errors of Loader and Processor are returned as is.
func (ex *Extractor) Extract(ctx context.Context, imageURL string, sampleSize, colorCount int) (*Result, error) {

	if sampleSize < 1 {
		sampleSize = 1
	}
	if colorCount < 1 {
		colorCount = 1
	}

	t := time.Now()
	bm, err := ex.loader.Load(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	kind, proc := "raster", ex.raster
	if IsVector(imageURL) {
		kind, proc = "vector", ex.vector
	}

	colors, err := proc.Process(ctx, bm, sampleSize, colorCount)
	if err != nil {
		return nil, err
	}
	if colors == nil {
		colors = []RGB{}
	}

	contrast := make([]RGB, len(colors))
	for i := range colors {
		contrast[i] = ex.contrast.Calculate(colors[i])
	}

	ex.log.Debug().Str("url", imageURL).Str("processor", kind).
		Int("sample", sampleSize).Int("colors", len(colors)).
		Str("dur", time.Since(t).String()).Msg("colors extracted")

	return &Result{URL: imageURL, MainColors: colors, ContrastColors: contrast}, nil
}
