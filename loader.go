package imagehues

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF format, first frame only.
	_ "image/jpeg" // register JPEG format.
	_ "image/png"  // register PNG format.
	"math"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"github.com/valyala/fasthttp"
	_ "golang.org/x/image/bmp"  // register BMP format.
	_ "golang.org/x/image/tiff" // register TIFF format.
	_ "golang.org/x/image/webp" // register WebP format.
)

const (
	// DefaultMaxConnsPerHost defines default value of maximum parallel http connections
	// to the host. To prevent DDoS.
	DefaultMaxConnsPerHost = 32

	// DefaultReadTimeout defines maximum duration for full response reading (including body).
	DefaultReadTimeout = 8 * time.Second

	// DefaultMaxResponseBodySize limits size of downloaded image.
	DefaultMaxResponseBodySize = 16 * 1024 * 1024

	// MaxPixels limits width*height of decoded raster image.
	MaxPixels = 50 * 1000 * 1000

	// maxSVGSide limits rasterized SVG width and height.
	maxSVGSide = 2048

	maxRedirects = 5
)

// SmartLoader implements interface Loader. Loads images over HTTP(S) using
// fasthttp.Client and from the local filesystem for file:// URLs and plain paths.
type SmartLoader struct {
	log    zerolog.Logger
	client fasthttp.Client
}

// NewSmartLoader returns new instance of SmartLoader, with default read timeout and
// MaxConnsPerHost (32) parameters.
func NewSmartLoader(l zerolog.Logger) *SmartLoader {
	return &SmartLoader{
		log: l.With().Str("component", "loader").Logger(),
		client: fasthttp.Client{ReadTimeout: DefaultReadTimeout,
			MaxConnsPerHost:     DefaultMaxConnsPerHost,
			ReadBufferSize:      64 * 1024,
			MaxResponseBodySize: DefaultMaxResponseBodySize},
	}
}

// SetMaxConnsPerHost set maximum parallel http connections to the host.
func (sl *SmartLoader) SetMaxConnsPerHost(n int) {
	sl.client.MaxConnsPerHost = n
}

// SetReadTimeout set maximum duration for full response reading (including body).
func (sl *SmartLoader) SetReadTimeout(d time.Duration) {
	sl.client.ReadTimeout = d
}

// Load implements interface Loader.
func (sl *SmartLoader) Load(ctx context.Context, url string) (*Bitmap, error) {

	t := time.Now()
	data, err := sl.fetch(ctx, url)
	if err != nil {
		sl.log.Debug().Str("url", url).Str("errmsg", err.Error()).Msg("image fetch failed")
		return nil, loadError(url, err)
	}

	bm, err := Decode(data)
	if err != nil {
		sl.log.Debug().Str("url", url).Str("errmsg", err.Error()).Msg("image decode failed")
		return nil, loadError(url, err)
	}

	sl.log.Debug().Str("url", url).Int("size", len(data)).Str("format", bm.Format).
		Int("width", bm.Width).Int("height", bm.Height).
		Str("dur", time.Since(t).String()).Msg("loaded")
	return bm, nil
}

func (sl *SmartLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	lurl := strings.ToLower(url)
	switch {
	case strings.HasPrefix(lurl, "http://"), strings.HasPrefix(lurl, "https://"):
		return sl.Download(ctx, url)
	case strings.HasPrefix(lurl, "file://"):
		return readFile(url[len("file://"):])
	}
	return readFile(url)
}

func readFile(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("image path cannot be empty")
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.Size() > DefaultMaxResponseBodySize {
		return nil, fmt.Errorf("file size %d exceeds limit %d: %w", fi.Size(), DefaultMaxResponseBodySize, ErrImageTooLarge)
	}
	data, err := os.ReadFile(path) // #nosec G304 - reading user supplied image is intended.
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrMediaIsEmpty
	}
	return data, nil
}

// Download retrieves image by URL. Returned slice is owned by caller.
// Up to 5 redirects are followed. Download returns as soon
// as ctx is done, the abandoned request finishes in background within the
// read timeout.
func (sl *SmartLoader) Download(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ctx.Done() == nil {
		return sl.download(ctx, url)
	}

	type result struct {
		data []byte
		err  error
	}

	// buffered, so abandoned download does not block forever.
	resc := make(chan result, 1)
	go func() {
		data, err := sl.download(ctx, url)
		resc <- result{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resc:
		return res.data, res.err
	}
}

// download owns req and resp for the whole exchange, including redirects.
func (sl *SmartLoader) download(ctx context.Context, url string) ([]byte, error) {

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseResponse(resp)
		fasthttp.ReleaseRequest(req)
	}()

	req.SetRequestURI(url)

	for redirects := 0; ; redirects++ {
		if err := sl.wait(ctx, req, resp); err != nil {
			return nil, err
		}

		code := resp.StatusCode()
		if !isRedirect(code) {
			break
		}
		if redirects == maxRedirects {
			return nil, fmt.Errorf("stopped after %d redirects: %w", maxRedirects, ErrTooManyRedirects)
		}
		location := resp.Header.Peek("Location")
		if len(location) == 0 {
			return nil, fmt.Errorf("http code %d without location", code)
		}
		// relative locations resolve against current request uri.
		req.URI().UpdateBytes(location)
		resp.Reset()
		sl.log.Debug().Str("url", url).Str("location", req.URI().String()).Int("code", code).Msg("redirect")
	}

	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		return nil, fmt.Errorf("http code %d", code)
	}
	if len(resp.Body()) == 0 {
		return nil, ErrMediaIsEmpty
	}

	// resp body returns to the pool on release.
	return append([]byte(nil), resp.Body()...), nil
}

// wait sends request, waiting out connection limit of the host.
func (sl *SmartLoader) wait(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	err := sl.do(ctx, req, resp)
	if err != fasthttp.ErrNoFreeConns {
		return err
	}

	// can be replaced with dynamically calculated delay in accordance
	// to average ratio (image size/download duration) for every host.
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()

	for err == fasthttp.ErrNoFreeConns {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err = sl.do(ctx, req, resp)
		}
	}
	return err
}

func (sl *SmartLoader) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		return sl.client.DoDeadline(req, resp, deadline)
	}
	return sl.client.Do(req, resp)
}

func isRedirect(code int) bool {
	switch code {
	case fasthttp.StatusMovedPermanently, fasthttp.StatusFound, fasthttp.StatusSeeOther,
		fasthttp.StatusTemporaryRedirect, fasthttp.StatusPermanentRedirect:
		return true
	}
	return false
}

// Decode decodes image data into Bitmap. SVG documents are rasterized at
// their view box size, other formats go through registered image decoders.
// JPEG EXIF orientation is applied. Images declaring more than MaxPixels
// pixels are rejected before decoding with ErrImageTooLarge.
func Decode(data []byte) (*Bitmap, error) {
	if len(data) == 0 {
		return nil, ErrMediaIsEmpty
	}

	if isSVG(data) {
		return decodeSVG(data)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image could not be decoded: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%dx%d %s image: %w", cfg.Width, cfg.Height, format, ErrImageTooLarge)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("image could not be decoded: %w", err)
	}

	return NewBitmap(img, format), nil
}

// isSVG sniffs the beginning of data for an SVG document.
func isSVG(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	head = bytes.ToLower(bytes.TrimSpace(bytes.TrimPrefix(head, []byte("\xef\xbb\xbf"))))
	return bytes.HasPrefix(head, []byte("<")) && bytes.Contains(head, []byte("<svg"))
}

func decodeSVG(data []byte) (*Bitmap, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("svg could not be parsed: %w", err)
	}

	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		// nothing to rasterize, vector processing does not need pixels.
		return &Bitmap{Format: "svg"}, nil
	}
	if scale := maxSVGSide / math.Max(w, h); scale < 1 {
		w, h = w*scale, h*scale
	}
	width, height := int(math.Ceil(w)), int(math.Ceil(h))

	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)

	return NewBitmap(img, "svg"), nil
}
