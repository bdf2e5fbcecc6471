// Package writer encodes typed entries into a newc CPIO stream.
package writer

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/indrora/newc/newc/format"
	"github.com/indrora/newc/newc/ioutil"
)

var (
	// ErrWriterClosed means the trailer has already been written; the
	// archive cannot be appended to.
	ErrWriterClosed = errors.New("archive writer is closed")
)

// Writer appends entries to a byte stream in the order given and
// terminates the stream with the trailer on Close. It never elides,
// reorders or deduplicates entries; name uniqueness is the archive
// collection's contract, not the writer's.
type Writer struct {
	stream *ioutil.AlignedWriter
	log    logrus.FieldLogger
	closed bool
}

// Option configures a Writer.
type Option func(*Writer)

func WithLogger(log logrus.FieldLogger) Option {
	return func(w *Writer) {
		w.log = log
	}
}

func NewWriter(destination io.Writer, opts ...Option) *Writer {
	w := &Writer{
		stream: ioutil.NewAlignedWriter(destination),
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteEntry encodes one entry: header, NUL-terminated name padded to
// the 4-byte boundary, then the payload padded the same way.
func (w *Writer) WriteEntry(entry *format.Entry) error {
	if w.closed {
		return ErrWriterClosed
	}
	if err := w.writeRecord(entry.Header, entry.Data()); err != nil {
		return err
	}
	w.log.Debugf("[%d] wrote entry: %s", w.stream.Written(), entry.Name())
	return nil
}

func (w *Writer) writeRecord(header format.Header, data []byte) error {
	header.Namesize = int64(len(header.Name)) + 1

	encoded, err := header.Encode()
	if err != nil {
		return errors.Wrapf(err, "encoding header for %q", header.Name)
	}
	if _, err := w.stream.Write(encoded); err != nil {
		return errors.Wrap(err, "failed to write header")
	}

	name := append([]byte(header.Name), 0)
	if _, err := w.stream.WriteWhole(name); err != nil {
		return errors.Wrapf(err, "failed to write name %q", header.Name)
	}

	if len(data) > 0 {
		if _, err := w.stream.WriteWhole(data); err != nil {
			return errors.Wrapf(err, "failed to write payload for %q", header.Name)
		}
	}
	return nil
}

// Written reports the number of bytes emitted so far, padding
// included.
func (w *Writer) Written() int64 {
	return w.stream.Written()
}

// Close writes the trailer record and closes the underlying stream if
// it is an io.Closer. Close is unconditional: every archive ends with
// the trailer exactly once.
func (w *Writer) Close() error {
	if w.closed {
		return ErrWriterClosed
	}
	if err := w.writeRecord(format.TrailerHeader(), nil); err != nil {
		return errors.Wrap(err, "failed to write trailer")
	}
	w.closed = true
	w.log.Debugf("wrote trailer, %d bytes total", w.stream.Written())
	return w.stream.Close()
}
