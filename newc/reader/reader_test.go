package reader_test

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/indrora/newc/newc/format"
	"github.com/indrora/newc/newc/reader"
	"github.com/indrora/newc/newc/writer"
)

// encodeArchive runs entries through the writer, trailer included.
func encodeArchive(t *testing.T, entries ...*format.Entry) []byte {
	t.Helper()
	buffer := new(bytes.Buffer)
	w := writer.NewWriter(buffer)
	for _, e := range entries {
		if err := w.WriteEntry(e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return buffer.Bytes()
}

func TestReadSingleFile(t *testing.T) {
	encoded := encodeArchive(t, format.NewFile("a.txt", []byte("hi")))
	r := reader.NewReader(bytes.NewReader(encoded))

	entry, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Name() != "a.txt" {
		t.Errorf("name = %q, want %q", entry.Name(), "a.txt")
	}
	if !bytes.Equal(entry.Data(), []byte("hi")) {
		t.Errorf("payload = %q, want %q", entry.Data(), "hi")
	}
	if entry.Header.Filesize != 2 {
		t.Errorf("filesize = %d, want 2", entry.Header.Filesize)
	}

	// The trailer is reported as end of archive, never yielded.
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after last entry, got %v", err)
	}
	// And the reader stays terminal.
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF from terminal state, got %v", err)
	}
}

func TestReadTrailerOnly(t *testing.T) {
	encoded := encodeArchive(t)
	r := reader.NewReader(bytes.NewReader(encoded))

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF from trailer-only stream, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	chardev, err := format.NewCharDev("dev/console", 5, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []*format.Entry{
		format.NewDirectory("etc", format.WithMtime(time.Unix(1700000000, 0))),
		format.NewFile("etc/hostname", []byte("gopher\n"), format.WithOwner(0, 0)),
		format.NewSymlink("init", "/sbin/init"),
		chardev,
	}

	r := reader.NewReader(bytes.NewReader(encodeArchive(t, want...)))
	for _, expected := range want {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("unexpected error reading %q: %v", expected.Name(), err)
		}
		if got.Type != expected.Type {
			t.Errorf("[%s] type = %s, want %s", expected.Name(), got.Type, expected.Type)
		}
		if got.Header.Mode != expected.Header.Mode {
			t.Errorf("[%s] mode = %07o, want %07o", expected.Name(),
				uint32(got.Header.Mode), uint32(expected.Header.Mode))
		}
		if got.Header.Filesize != expected.Header.Filesize {
			t.Errorf("[%s] filesize = %d, want %d", expected.Name(),
				got.Header.Filesize, expected.Header.Filesize)
		}
		if !bytes.Equal(got.Data(), expected.Data()) {
			t.Errorf("[%s] payload mismatch", expected.Name())
		}
		if got.Header.Rdevmajor != expected.Header.Rdevmajor ||
			got.Header.Rdevminor != expected.Header.Rdevminor {
			t.Errorf("[%s] rdev mismatch", expected.Name())
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestTruncatedHeader(t *testing.T) {
	encoded := encodeArchive(t, format.NewFile("a.txt", []byte("hi")))

	// 109 bytes where a header was expected: a hard failure, not a
	// silent empty result.
	r := reader.NewReader(bytes.NewReader(encoded[:109]))
	if _, err := r.Next(); !errors.Is(err, reader.ErrTruncatedStream) {
		t.Errorf("expected ErrTruncatedStream, got %v", err)
	}
}

func TestTruncatedPayload(t *testing.T) {
	encoded := encodeArchive(t, format.NewFile("a.txt", []byte("some payload here")))

	// Chop the stream inside the payload.
	r := reader.NewReader(bytes.NewReader(encoded[:120]))
	if _, err := r.Next(); !errors.Is(err, reader.ErrTruncatedStream) {
		t.Errorf("expected ErrTruncatedStream, got %v", err)
	}
}

func TestMissingTrailerCleanBoundary(t *testing.T) {
	encoded := encodeArchive(t, format.NewFile("a.txt", []byte("hi")))

	// Drop the trailer record entirely: the entry still decodes, then
	// the stream ends cleanly at a record boundary.
	r := reader.NewReader(bytes.NewReader(encoded[:120]))
	entry, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Name() != "a.txt" {
		t.Errorf("name = %q, want %q", entry.Name(), "a.txt")
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF at clean boundary, got %v", err)
	}
}

func TestZeroRemainderIsBenign(t *testing.T) {
	encoded := encodeArchive(t, format.NewFile("a.txt", []byte("hi")))

	// Replace the trailer with a short all-zero remainder, as block
	// padding leaves behind.
	stream := append(append([]byte{}, encoded[:120]...), make([]byte, 40)...)
	r := reader.NewReader(bytes.NewReader(stream))

	if _, err := r.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF over zero padding, got %v", err)
	}
}

func TestNonZeroRemainderStillTruncated(t *testing.T) {
	encoded := encodeArchive(t, format.NewFile("a.txt", []byte("hi")))

	// A partial, non-zero header start: the prior entry stays valid,
	// the shortfall is an error.
	stream := append(append([]byte{}, encoded[:120]...), []byte("0707")...)
	r := reader.NewReader(bytes.NewReader(stream))

	entry, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Name() != "a.txt" {
		t.Errorf("name = %q, want %q", entry.Name(), "a.txt")
	}
	if _, err := r.Next(); !errors.Is(err, reader.ErrTruncatedStream) {
		t.Errorf("expected ErrTruncatedStream, got %v", err)
	}
}

func TestTrailingGarbageAfterTrailer(t *testing.T) {
	encoded := encodeArchive(t, format.NewFile("a.txt", []byte("hi")))
	stream := append(append([]byte{}, encoded...), []byte("garbage")...)

	r := reader.NewReader(bytes.NewReader(stream))
	if _, err := r.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Reported as an anomaly, but the read still ends cleanly.
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestUnknownEntryType(t *testing.T) {
	// Hand-build a record whose mode carries no type bits.
	h := format.Header{
		Mode:     0644,
		Nlink:    1,
		Namesize: 2,
		Name:     "x",
	}
	encoded, err := h.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	record := append(encoded, 'x', 0) // 110+2 is already aligned

	r := reader.NewReader(bytes.NewReader(record))
	if _, err := r.Next(); !errors.Is(err, format.ErrUnknownEntryType) {
		t.Errorf("expected ErrUnknownEntryType, got %v", err)
	}
}

func TestMalformedHeader(t *testing.T) {
	junk := bytes.Repeat([]byte("x"), format.HeaderLength)
	r := reader.NewReader(bytes.NewReader(junk))
	if _, err := r.Next(); !errors.Is(err, format.ErrMalformedHeader) {
		t.Errorf("expected ErrMalformedHeader, got %v", err)
	}
}
