// Package manifest renders an archive's metadata as a compact CBOR
// document. The manifest is a diagnostic sidecar for external tooling;
// it is not part of the wire format and never round-trips payloads.
package manifest

import (
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/indrora/newc/newc/archive"
)

const Version = 1

// EntryInfo is the per-entry metadata record.
type EntryInfo struct {
	Name      string `cbor:"0,keyasint"`
	Type      string `cbor:"1,keyasint"`
	Mode      uint32 `cbor:"2,keyasint"`
	UID       uint32 `cbor:"3,keyasint"`
	GID       uint32 `cbor:"4,keyasint"`
	Mtime     int64  `cbor:"5,keyasint"`
	Size      int64  `cbor:"6,keyasint"`
	Digest    []byte `cbor:"7,keyasint,omitempty"`
	Target    string `cbor:"8,keyasint,omitempty"`
	Rdevmajor uint32 `cbor:"9,keyasint,omitempty"`
	Rdevminor uint32 `cbor:"10,keyasint,omitempty"`
}

type Manifest struct {
	Version uint8       `cbor:"0,keyasint"`
	Created time.Time   `cbor:"1,keyasint"`
	Entries []EntryInfo `cbor:"2,keyasint"`
}

// FromArchive snapshots the archive's metadata in insertion order.
func FromArchive(a *archive.Archive) *Manifest {
	m := &Manifest{
		Version: Version,
		Created: time.Now().UTC(),
	}
	for _, entry := range a.Entries() {
		m.Entries = append(m.Entries, EntryInfo{
			Name:      entry.Name(),
			Type:      entry.Type.String(),
			Mode:      uint32(entry.Header.Mode),
			UID:       entry.Header.UID,
			GID:       entry.Header.GID,
			Mtime:     entry.Header.Mtime,
			Size:      entry.Header.Filesize,
			Digest:    entry.Digest(),
			Target:    entry.Target(),
			Rdevmajor: entry.Header.Rdevmajor,
			Rdevminor: entry.Header.Rdevminor,
		})
	}
	return m
}

// Write CBOR-encodes the manifest to w.
func (m *Manifest) Write(w io.Writer) error {
	data, err := cbor.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "failed to marshal manifest")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write manifest")
	}
	return nil
}

// Read decodes a CBOR manifest from r.
func Read(r io.Reader) (*Manifest, error) {
	m := new(Manifest)
	if err := cbor.NewDecoder(r).Decode(m); err != nil {
		return nil, errors.Wrap(err, "failed to decode manifest")
	}
	return m, nil
}
