package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/indrora/newc/newc/ioutil"
)

// Header is the decoded form of the 110-byte newc header record.
//
// Field widths here are generous (the stream carries 8 hex characters
// per field, so 32 bits); Encode rejects anything that does not fit.
type Header struct {
	// Magic is the format tag. Empty means MagicNewc on encode.
	Magic string
	Ino   uint64
	Mode  Mode
	UID   uint32
	GID   uint32
	Nlink uint32
	// Mtime is the modification time in Unix epoch seconds.
	Mtime int64
	// Filesize is the payload length in bytes. Kept in sync with the
	// entry payload by Entry.SetData, never assigned directly.
	Filesize  int64
	Devmajor  uint32
	Devminor  uint32
	Rdevmajor uint32
	Rdevminor uint32
	// Namesize is the length of the name field including its
	// terminating NUL.
	Namesize int64
	// Check is unused for MagicNewc and always encodes as zero.
	Check uint32

	// Name is the entry name. It follows the fixed header on the wire.
	Name string
}

// numeric field offsets within the encoded header, after the magic.
const headerFields = 13

// DecodeHeader parses a 110-byte header record. The name field is not
// part of b; decode it separately with DecodeName once Namesize is
// known.
func DecodeHeader(b []byte) (Header, error) {
	var h Header

	if len(b) != HeaderLength {
		return h, errors.Wrapf(ErrMalformedHeader, "expected %d header bytes, got %d", HeaderLength, len(b))
	}

	magic := string(b[0:6])
	if magic != MagicNewc && magic != MagicNewcCRC {
		return h, errors.Wrapf(ErrMalformedHeader, "unsupported magic %q", magic)
	}
	h.Magic = magic

	fields := make([]uint64, headerFields)
	for i := range fields {
		start := 6 + i*8
		value, err := strconv.ParseUint(string(b[start:start+8]), 16, 32)
		if err != nil {
			return h, errors.Wrapf(ErrMalformedHeader, "field %d is not valid hex: %q", i, b[start:start+8])
		}
		fields[i] = value
	}

	h.Ino = fields[0]
	h.Mode = Mode(fields[1])
	h.UID = uint32(fields[2])
	h.GID = uint32(fields[3])
	h.Nlink = uint32(fields[4])
	h.Mtime = int64(fields[5])
	h.Filesize = int64(fields[6])
	h.Devmajor = uint32(fields[7])
	h.Devminor = uint32(fields[8])
	h.Rdevmajor = uint32(fields[9])
	h.Rdevminor = uint32(fields[10])
	h.Namesize = int64(fields[11])
	h.Check = uint32(fields[12])

	return h, nil
}

// DecodeName interprets the raw name field (Namesize bytes, NUL
// included) and returns the name along with the number of bytes the
// caller must consume so the next read starts 4-byte aligned after the
// header and name.
func DecodeName(b []byte) (string, int64) {
	name := strings.TrimRight(string(b), "\x00")
	consumed := int64(len(b)) + ioutil.Pad(HeaderLength+int64(len(b)))
	return name, consumed
}

// Encode renders the fixed header as exactly 110 bytes: the magic
// followed by every numeric field as 8 lowercase, zero-padded hex
// characters. Values that do not fit in 32 bits fail with
// ErrFieldOverflow. The name is not included.
func (h Header) Encode() ([]byte, error) {
	magic := h.Magic
	if magic == "" {
		magic = MagicNewc
	}

	buf := make([]byte, 0, HeaderLength)
	buf = append(buf, magic...)

	fields := []struct {
		name  string
		value uint64
	}{
		{"ino", h.Ino},
		{"mode", uint64(h.Mode)},
		{"uid", uint64(h.UID)},
		{"gid", uint64(h.GID)},
		{"nlink", uint64(h.Nlink)},
		{"mtime", uint64(h.Mtime)},
		{"filesize", uint64(h.Filesize)},
		{"devmajor", uint64(h.Devmajor)},
		{"devminor", uint64(h.Devminor)},
		{"rdevmajor", uint64(h.Rdevmajor)},
		{"rdevminor", uint64(h.Rdevminor)},
		{"namesize", uint64(h.Namesize)},
		{"check", uint64(h.Check)},
	}

	for _, field := range fields {
		if field.value > 0xFFFFFFFF {
			return nil, errors.Wrapf(ErrFieldOverflow, "%s = %d", field.name, field.value)
		}
		buf = append(buf, fmt.Sprintf("%08x", field.value)...)
	}

	return buf, nil
}

// IsTrailer reports whether this header names the end-of-archive
// sentinel. The trailer has no type bits and bypasses type dispatch.
func (h Header) IsTrailer() bool {
	return h.Name == TrailerName
}

// TrailerHeader returns the sentinel header that terminates every
// archive: zero size, zero mode, name only.
func TrailerHeader() Header {
	return Header{
		Nlink:    1,
		Namesize: int64(len(TrailerName)) + 1,
		Name:     TrailerName,
	}
}

func (h Header) String() string {
	return fmt.Sprintf("%s (ino %d, mode %07o, %d:%d, nlink %d, mtime %d, %d bytes)",
		h.Name, h.Ino, uint32(h.Mode), h.UID, h.GID, h.Nlink, h.Mtime, h.Filesize)
}
