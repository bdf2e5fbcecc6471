package ioutil

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// Alignment is the record alignment of the newc format. Every header,
// name field and payload starts on this boundary.
const Alignment = 4

// Pad returns the number of zero bytes needed to bring n up to the next
// alignment boundary.
func Pad(n int64) int64 {
	return (Alignment - (n % Alignment)) % Alignment
}

// AlignedReader wraps a reader and tracks the stream offset so that
// callers can discard alignment padding between records.
type AlignedReader struct {
	reader *bufio.Reader
	offset int64
}

func NewAlignedReader(reader io.Reader) *AlignedReader {
	return &AlignedReader{
		reader: bufio.NewReader(reader),
	}
}

func (ar *AlignedReader) Read(b []byte) (int, error) {
	read, err := ar.reader.Read(b)
	ar.offset += int64(read)
	return read, err
}

// ReadFull fills b completely or fails. A short read surfaces as
// io.ErrUnexpectedEOF; exhaustion before the first byte as io.EOF.
func (ar *AlignedReader) ReadFull(b []byte) (int, error) {
	read, err := io.ReadFull(ar.reader, b)
	ar.offset += int64(read)
	return read, err
}

// Align discards padding bytes so the next read starts on an alignment
// boundary.
func (ar *AlignedReader) Align() error {
	skip := Pad(ar.offset)
	if skip == 0 {
		return nil
	}
	n, err := io.CopyN(io.Discard, ar.reader, skip)
	ar.offset += n
	if err != nil {
		return errors.Wrap(err, "failed to skip alignment padding")
	}
	return nil
}

// Offset reports the number of bytes consumed from the underlying
// stream so far.
func (ar *AlignedReader) Offset() int64 {
	return ar.offset
}

// AlignedWriter wraps a writer and pads its output with zero bytes on
// demand so every record section lands on an alignment boundary.
type AlignedWriter struct {
	writer  io.Writer
	written int64
}

func NewAlignedWriter(destination io.Writer) *AlignedWriter {
	return &AlignedWriter{
		writer: destination,
	}
}

func (aw *AlignedWriter) Write(p []byte) (int, error) {
	written, err := aw.writer.Write(p)
	aw.written += int64(written)
	return written, err
}

// WriteWhole writes p followed by the padding that brings the stream
// back to an alignment boundary.
func (aw *AlignedWriter) WriteWhole(p []byte) (int, error) {
	n, err := aw.Write(p)
	if err != nil {
		return n, errors.Wrap(err, "failed to write record section")
	}
	return n, aw.Align()
}

// Align writes out the zero bytes remaining in the current alignment
// unit, if any.
func (aw *AlignedWriter) Align() error {
	pad := Pad(aw.written)
	if pad == 0 {
		return nil
	}
	if _, err := aw.Write(bytes.Repeat([]byte{0}, int(pad))); err != nil {
		return errors.Wrap(err, "failed to write alignment padding")
	}
	return nil
}

// Written reports the number of bytes emitted, padding included.
func (aw *AlignedWriter) Written() int64 {
	return aw.written
}

func (aw *AlignedWriter) Close() error {
	if err := aw.Align(); err != nil {
		return err
	}
	if closer, ok := aw.writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
