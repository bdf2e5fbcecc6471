package format

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// Entry is a header paired with its payload bytes. The entry type is
// decoded from the mode bits exactly once, at construction, and never
// changes afterwards.
//
// The payload is only reachable through SetData/Data so that
// Header.Filesize can never go stale.
type Entry struct {
	Header Header
	Type   EntryType

	data   []byte
	digest []byte
}

// EntryOption tweaks a freshly constructed entry.
type EntryOption func(*Entry)

// WithPermissions merges perm's permission bits into the mode, leaving
// the type bits alone.
func WithPermissions(perm Mode) EntryOption {
	return func(e *Entry) {
		e.Header.Mode = (e.Header.Mode & ModeTypeMask) | perm.Perm()
	}
}

func WithMtime(t time.Time) EntryOption {
	return func(e *Entry) {
		e.Header.Mtime = t.Unix()
	}
}

func WithOwner(uid, gid uint32) EntryOption {
	return func(e *Entry) {
		e.Header.UID = uid
		e.Header.GID = gid
	}
}

func WithInode(ino uint64) EntryOption {
	return func(e *Entry) {
		e.Header.Ino = ino
	}
}

// SetData installs the payload and recomputes the derived header state
// in one step: Filesize always tracks the payload length, and the
// content digest is refreshed. Types that carry no payload (directories
// and devices) always end up with an empty payload and Filesize 0, no
// matter what was passed in.
func (e *Entry) SetData(data []byte) {
	if !e.Type.HasPayload() {
		e.data = nil
		e.digest = nil
		e.Header.Filesize = 0
		return
	}
	e.data = data
	e.Header.Filesize = int64(len(data))
	if len(data) > 0 {
		sum := blake2b.Sum256(data)
		e.digest = sum[:]
	} else {
		e.digest = nil
	}
}

// Data returns the payload bytes. Callers must not modify the returned
// slice; use SetData to replace the payload.
func (e *Entry) Data() []byte {
	return e.data
}

// Digest returns the BLAKE2b-256 digest of the payload, or nil for an
// empty payload. Diagnostic only, not part of the wire format.
func (e *Entry) Digest() []byte {
	return e.digest
}

// Name returns the entry name from the header.
func (e *Entry) Name() string {
	return e.Header.Name
}

// Target returns the link target of a symlink entry, which the wire
// format stores as the payload.
func (e *Entry) Target() string {
	if e.Type != TypeSymlink {
		return ""
	}
	return string(e.data)
}

func newEntry(t EntryType, name string, opts ...EntryOption) *Entry {
	nlink := uint32(1)
	if t == TypeDirectory {
		nlink = 2
	}
	e := &Entry{
		Header: Header{
			Mode:     t.Mode(),
			Nlink:    nlink,
			Mtime:    time.Now().Unix(),
			Namesize: int64(len(name)) + 1,
			Name:     name,
		},
		Type: t,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewFile constructs a regular-file entry holding data as its payload.
func NewFile(name string, data []byte, opts ...EntryOption) *Entry {
	e := newEntry(TypeFile, name, opts...)
	if e.Header.Mode.Perm() == 0 {
		e.Header.Mode |= 0644
	}
	e.SetData(data)
	return e
}

// NewDirectory constructs a directory entry. Directories never carry a
// payload.
func NewDirectory(name string, opts ...EntryOption) *Entry {
	e := newEntry(TypeDirectory, name, opts...)
	if e.Header.Mode.Perm() == 0 {
		e.Header.Mode |= 0755
	}
	return e
}

// NewSymlink constructs a symbolic link entry. The target path becomes
// the payload and Filesize its byte length.
func NewSymlink(name, target string, opts ...EntryOption) *Entry {
	e := newEntry(TypeSymlink, name, opts...)
	if e.Header.Mode.Perm() == 0 {
		e.Header.Mode |= 0777
	}
	e.SetData([]byte(target))
	return e
}

// NewCharDev constructs a character device entry. Device numbers are
// mandatory; construction fails with ErrMissingDeviceNumbers when both
// are zero.
func NewCharDev(name string, rdevmajor, rdevminor uint32, opts ...EntryOption) (*Entry, error) {
	if rdevmajor == 0 && rdevminor == 0 {
		return nil, errors.Wrapf(ErrMissingDeviceNumbers, "char device %q", name)
	}
	e := newEntry(TypeCharDevice, name, opts...)
	if e.Header.Mode.Perm() == 0 {
		e.Header.Mode |= 0644
	}
	e.Header.Rdevmajor = rdevmajor
	e.Header.Rdevminor = rdevminor
	return e, nil
}

// FromHeader dispatches a decoded header to the matching entry
// constructor. data is the payload read from the stream. Decoded types
// outside the modeled set fail with ErrUnsupportedFileType.
func FromHeader(h Header, data []byte) (*Entry, error) {
	t, err := TypeFromMode(h.Mode)
	if err != nil {
		return nil, errors.Wrapf(err, "entry %q has mode %07o", h.Name, uint32(h.Mode))
	}

	switch t {
	case TypeFile, TypeSymlink:
		// carry the payload through
	case TypeDirectory:
		// directories own no payload
	case TypeCharDevice:
		if h.Rdevmajor == 0 && h.Rdevminor == 0 {
			return nil, errors.Wrapf(ErrMissingDeviceNumbers, "char device %q", h.Name)
		}
	default:
		return nil, errors.Wrapf(ErrUnsupportedFileType, "entry %q is a %s", h.Name, t)
	}

	e := &Entry{Header: h, Type: t}
	e.SetData(data)
	return e, nil
}

// String renders a diagnostic summary: header line, content digest for
// payload-bearing entries, and a type-specific detail line.
func (e *Entry) String() string {
	out := fmt.Sprintf("%s %s", e.Type, e.Header)
	if len(e.digest) > 0 {
		out += fmt.Sprintf("\nBLAKE2b: %x", e.digest)
	}
	switch e.Type {
	case TypeFile:
		out += fmt.Sprintf("\n%d bytes", len(e.data))
	case TypeSymlink:
		out += fmt.Sprintf("\n-> %s", e.Target())
	case TypeCharDevice, TypeBlockDevice:
		out += fmt.Sprintf("\nmajor %d, minor %d", e.Header.Rdevmajor, e.Header.Rdevminor)
	}
	return out
}
