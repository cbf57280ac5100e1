package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter writes every log line to all of its writers. Unlike io.MultiWriter
// it keeps going when one of them fails, so a full disk does not silence stdout.
type CombinedWriter struct {
	writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		writers: append([]io.Writer(nil), writers...),
	}
}

// Write reports len(p) only if every writer took all of p. Otherwise it returns
// the smallest count written and the combined errors.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	written := len(p)
	var err error
	for _, w := range cw.writers {
		n, werr := w.Write(p)
		if werr == nil && n < len(p) {
			werr = io.ErrShortWrite
		}
		if werr != nil {
			err = multierr.Append(err, werr)
		}
		written = min(written, n)
	}
	return written, err
}
