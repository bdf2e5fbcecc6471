package ioutil_test

import (
	"bytes"
	"testing"

	"github.com/indrora/newc/newc/ioutil"
)

func TestPad(t *testing.T) {
	testCases := []struct {
		n        int64
		expected int64
	}{
		{0, 0},
		{1, 3},
		{2, 2},
		{3, 1},
		{4, 0},
		{110, 2},
		{116, 0},
		{121, 3},
	}

	for _, tc := range testCases {
		if got := ioutil.Pad(tc.n); got != tc.expected {
			t.Errorf("Pad(%d) = %d, want %d", tc.n, got, tc.expected)
		}
	}

	// The padded length always lands on a boundary.
	for n := int64(0); n < 64; n++ {
		pad := ioutil.Pad(n)
		if pad < 0 || pad > 3 {
			t.Errorf("Pad(%d) = %d, out of range", n, pad)
		}
		if (n+pad)%ioutil.Alignment != 0 {
			t.Errorf("Pad(%d) = %d does not align", n, pad)
		}
	}
}

func TestAlignedWriter(t *testing.T) {
	buffer := new(bytes.Buffer)
	w := ioutil.NewAlignedWriter(buffer)

	if _, err := w.WriteWhole([]byte("abcde")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if w.Written() != 8 {
		t.Errorf("expected 8 bytes written, got %d", w.Written())
	}
	got := buffer.Bytes()
	if len(got) != 8 {
		t.Fatalf("expected 8 bytes in buffer, got %d", len(got))
	}
	for i, v := range got[5:] {
		if v != 0 {
			t.Errorf("expected zero padding at %d, got %d", 5+i, v)
		}
	}

	// Aligning an already-aligned stream writes nothing.
	if err := w.Align(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Written() != 8 {
		t.Errorf("align on boundary wrote bytes: %d", w.Written())
	}
}

func TestAlignedReader(t *testing.T) {
	r := ioutil.NewAlignedReader(bytes.NewReader([]byte("abcXefgh")))

	buf := make([]byte, 3)
	if _, err := r.ReadFull(buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(buf) != "abc" {
		t.Errorf("read %q, want %q", buf, "abc")
	}

	if err := r.Align(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Offset() != 4 {
		t.Errorf("expected offset 4 after align, got %d", r.Offset())
	}

	buf = make([]byte, 4)
	if _, err := r.ReadFull(buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(buf) != "efgh" {
		t.Errorf("read %q, want %q", buf, "efgh")
	}
}
