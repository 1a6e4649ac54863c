package imagehues

import (
	"io"
	"os"
	"strings"
	"sync"
)

// BufferedCSV implements Outputer interface. CSV file with write buffer.
type BufferedCSV struct {
	mux                 sync.Mutex
	buf                 []string
	w                   io.Writer
	closer              io.Closer
	isHeadWriteRequired bool
}

// DefaultBufferLen defines default output buffer length.
const DefaultBufferLen = 10

// NewBufferedCSV returns new BufferedCSV instance. If size < 2, DefaultBufferLen (10) will be assigned.
func NewBufferedCSV(size int) *BufferedCSV {
	if size < 2 {
		size = DefaultBufferLen
	}
	return &BufferedCSV{buf: make([]string, 0, size)}
}

// Open creates file or appends if file is exist. CSV header writes only into empty file.
// Name "-" stands for standard output.
func (out *BufferedCSV) Open(fname string) error {

	if fname == "-" {
		out.w, out.closer = os.Stdout, nil
		out.isHeadWriteRequired = true
		return nil
	}

	file, err := os.OpenFile(fname, os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G304 - user supplied output.
	if err != nil {
		return err
	}

	flen, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		_ = file.Close()
		return err
	}

	out.w, out.closer = file, file
	out.isHeadWriteRequired = (flen == 0)

	return nil
}

// Save adds Resulter to the buffer and flushes buffer to the file if buffer length reached the limit.
func (out *BufferedCSV) Save(res Resulter) error {

	out.mux.Lock()
	defer out.mux.Unlock()

	if out.w == nil {
		// ignore, if Save() is called later than Close().
		return nil
	}

	if out.isHeadWriteRequired {
		// applies only at the first Save() call.
		out.buf = append(out.buf, res.Header())
		out.isHeadWriteRequired = false
	}

	out.buf = append(out.buf, res.Result())
	if len(out.buf) < cap(out.buf) {
		return nil
	}

	return out.flush()
}

func (out *BufferedCSV) flush() error {
	if len(out.buf) == 0 {
		return nil
	}
	if _, err := io.WriteString(out.w, strings.Join(out.buf, "")); err != nil {
		return err
	}
	out.buf = out.buf[0:0:cap(out.buf)]
	return nil
}

// Close flushes to the output file unsaved buffer and closes file.
func (out *BufferedCSV) Close() error {
	out.mux.Lock()
	defer out.mux.Unlock()

	if out.w == nil {
		return nil
	}

	err := out.flush()
	if out.closer != nil {
		if cerr := out.closer.Close(); err == nil {
			err = cerr
		}
	}

	out.w, out.closer = nil, nil
	return err
}
