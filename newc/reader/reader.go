// Package reader decodes newc CPIO streams into typed entries.
//
// The reader is a pull-based, non-restartable sequence: each call to
// Next consumes one record from the stream and fully materializes its
// payload. Entries decoded before a failure remain valid.
package reader

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/indrora/newc/newc/format"
	"github.com/indrora/newc/newc/ioutil"
)

var (
	// ErrTruncatedStream means the stream ended in the middle of a
	// record. Exhaustion at a record boundary is reported as io.EOF,
	// never as this error.
	ErrTruncatedStream = errors.New("stream ended mid-record")
)

type readerState int

const (
	stateAwaitingHeader readerState = iota
	stateAwaitingName
	stateAwaitingPayload
	stateDone
)

// Reader decodes entries from a byte stream, stopping at the trailer
// or at end of stream.
type Reader struct {
	stream *ioutil.AlignedReader
	log    logrus.FieldLogger
	state  readerState
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger routes the reader's progress and anomaly messages to the
// given logger instead of the standard one.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Reader) {
		r.log = log
	}
}

func NewReader(stream io.Reader, opts ...Option) *Reader {
	r := &Reader{
		stream: ioutil.NewAlignedReader(stream),
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next decodes and returns the next entry. It returns io.EOF once the
// trailer has been seen, or when the stream ends cleanly at a record
// boundary (any sub-header remainder of zero bytes is treated as
// end-of-archive padding). A stream that gives out mid-record fails
// with ErrTruncatedStream.
func (r *Reader) Next() (*format.Entry, error) {
	if r.state == stateDone {
		return nil, io.EOF
	}

	header, err := r.readHeader()
	if err != nil {
		return nil, err
	}
	if r.state == stateDone {
		// Trailer: consume any trailing padding and stop.
		r.checkTrailing()
		return nil, io.EOF
	}

	r.state = stateAwaitingPayload
	data, err := r.readPayload(header.Filesize)
	if err != nil {
		return nil, err
	}

	entry, err := format.FromHeader(header, data)
	if err != nil {
		return nil, err
	}
	r.log.Debugf("[%d] decoded entry: %s", r.stream.Offset(), entry.Name())

	r.state = stateAwaitingHeader
	return entry, nil
}

// readHeader consumes the fixed header plus the name field and skips
// to the payload boundary. On the trailer it flips the reader into its
// terminal state.
func (r *Reader) readHeader() (format.Header, error) {
	var zero format.Header

	buf := make([]byte, format.HeaderLength)
	n, err := r.stream.ReadFull(buf)
	if err == io.EOF {
		// Clean boundary, but no trailer was ever seen.
		r.log.Warn("reached end of stream without finding trailer")
		r.state = stateDone
		return zero, io.EOF
	}
	if err != nil {
		if allZero(buf[:n]) {
			// Benign end-of-archive padding shorter than a header.
			r.log.Debugf("read %d zero bytes past last entry, stopping", n)
			r.state = stateDone
			return zero, io.EOF
		}
		r.log.Warnf("archive truncated or corrupted: %d bytes where a header was expected", n)
		return zero, errors.Wrapf(ErrTruncatedStream, "got %d of %d header bytes at offset %d",
			n, format.HeaderLength, r.stream.Offset())
	}

	header, err := format.DecodeHeader(buf)
	if err != nil {
		return zero, errors.Wrapf(err, "at offset %d", r.stream.Offset()-format.HeaderLength)
	}

	r.state = stateAwaitingName
	nameBuf := make([]byte, header.Namesize)
	if _, err := r.stream.ReadFull(nameBuf); err != nil {
		return zero, errors.Wrapf(ErrTruncatedStream, "reading %d name bytes at offset %d",
			header.Namesize, r.stream.Offset())
	}
	header.Name, _ = format.DecodeName(nameBuf)
	if err := r.stream.Align(); err != nil {
		return zero, errors.Wrap(ErrTruncatedStream, "skipping name padding")
	}

	if header.IsTrailer() {
		r.log.Debugf("trailer detected at offset %d", r.stream.Offset())
		r.state = stateDone
	}
	return header, nil
}

func (r *Reader) readPayload(size int64) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	data := make([]byte, size)
	if _, err := r.stream.ReadFull(data); err != nil {
		return nil, errors.Wrapf(ErrTruncatedStream, "reading %d payload bytes at offset %d",
			size, r.stream.Offset())
	}
	if err := r.stream.Align(); err != nil {
		return nil, errors.Wrap(ErrTruncatedStream, "skipping payload padding")
	}
	return data, nil
}

// checkTrailing drains whatever follows the trailer. All-zero bytes
// are normal block padding; anything else is reported, but entries
// already decoded stay valid.
func (r *Reader) checkTrailing() {
	rest := new(bytes.Buffer)
	if _, err := io.Copy(rest, r.stream); err != nil {
		return
	}
	if rest.Len() > 0 && !allZero(rest.Bytes()) {
		r.log.Warnf("%d non-zero bytes after trailer", rest.Len())
	}
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
