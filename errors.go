package imagehues

import "errors"

var (
	// ErrInvalidDimensions is returned when loaded image has zero width or height.
	ErrInvalidDimensions = errors.New("image with invalid dimensions")

	// ErrSurfaceUnavailable is returned when raw pixels could not be obtained from the bitmap.
	ErrSurfaceUnavailable = errors.New("could not obtain pixel surface")

	// ErrMediaIsEmpty is returned when size of downloaded file is equal to zero.
	ErrMediaIsEmpty = errors.New("url referes to the empty file")

	// ErrImageTooLarge is returned when image file or its declared pixel count exceeds the limit.
	ErrImageTooLarge = errors.New("image is too large")

	// ErrTooManyRedirects is returned when image URL redirects more than 5 times.
	ErrTooManyRedirects = errors.New("too many redirects")
)

// ImageLoadMessage is the stable message of every ImageLoadError.
const ImageLoadMessage = "Error loading the image"

// ImageLoadError is returned by Loader when image could not be fetched or decoded.
// Error() always returns ImageLoadMessage, the underlying failure is available
// through Unwrap.
type ImageLoadError struct {
	URL string
	Err error
}

func (e *ImageLoadError) Error() string {
	return ImageLoadMessage
}

func (e *ImageLoadError) Unwrap() error {
	return e.Err
}

func loadError(url string, err error) error {
	return &ImageLoadError{URL: url, Err: err}
}
