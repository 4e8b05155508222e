package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter duplicates writes to all of its writers, like io.MultiWriter,
// but keeps going when one of them fails. Used to log to stdout and a rotated
// file at once.
type CombinedWriter struct {
	writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		writers: append([]io.Writer(nil), writers...),
	}
}

// Write reports the whole of p as written if any writer took it; the error
// combines every writer failure.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var err error
	written := false
	for _, w := range cw.writers {
		if _, werr := w.Write(p); werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		written = true
	}
	if !written {
		return 0, err
	}
	return len(p), err
}
