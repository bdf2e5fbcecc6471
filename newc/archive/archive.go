// Package archive holds an ordered, name-unique collection of entries
// and the conveniences for filling it from a byte stream or from the
// filesystem and flushing it back out.
package archive

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/indrora/newc/newc/format"
	"github.com/indrora/newc/newc/reader"
	"github.com/indrora/newc/newc/writer"
)

var (
	ErrDuplicateName = errors.New("an entry with that name already exists")
	ErrNotFound      = errors.New("no entry with that name")
)

// Archive is an insertion-ordered mapping from entry name to entry.
// Insertion order defines on-disk encoding order. The trailer is never
// stored; the writer synthesizes it.
type Archive struct {
	names   []string
	entries map[string]*format.Entry
	log     logrus.FieldLogger
}

// Option configures an Archive.
type Option func(*Archive)

func WithLogger(log logrus.FieldLogger) Option {
	return func(a *Archive) {
		a.log = log
	}
}

func New(opts ...Option) *Archive {
	a := &Archive{
		entries: map[string]*format.Entry{},
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Add appends an entry, failing with ErrDuplicateName if the name is
// already present. Use Put to overwrite instead; overwriting is always
// an explicit choice.
func (a *Archive) Add(entry *format.Entry) error {
	name := entry.Name()
	if _, ok := a.entries[name]; ok {
		return errors.Wrapf(ErrDuplicateName, "%q", name)
	}
	a.names = append(a.names, name)
	a.entries[name] = entry
	a.log.Debugf("added entry: %s", name)
	return nil
}

// Put inserts an entry, replacing any existing entry with the same
// name in place (insertion order is kept from the first insert).
func (a *Archive) Put(entry *format.Entry) {
	name := entry.Name()
	if _, ok := a.entries[name]; !ok {
		a.names = append(a.names, name)
	}
	a.entries[name] = entry
}

// Get returns the entry with the given name, if present.
func (a *Archive) Get(name string) (*format.Entry, bool) {
	entry, ok := a.entries[name]
	return entry, ok
}

// Remove deletes and returns the named entry, failing with ErrNotFound
// if it is absent.
func (a *Archive) Remove(name string) (*format.Entry, error) {
	entry, ok := a.entries[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	delete(a.entries, name)
	for i, n := range a.names {
		if n == name {
			a.names = append(a.names[:i], a.names[i+1:]...)
			break
		}
	}
	a.log.Debugf("removed entry: %s", name)
	return entry, nil
}

func (a *Archive) Len() int {
	return len(a.names)
}

// Names returns the entry names in insertion order.
func (a *Archive) Names() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// Entries returns the entries in insertion order.
func (a *Archive) Entries() []*format.Entry {
	out := make([]*format.Entry, 0, len(a.names))
	for _, name := range a.names {
		out = append(out, a.entries[name])
	}
	return out
}

// AddSymlink appends a symbolic link entry pointing at target.
func (a *Archive) AddSymlink(name, target string, opts ...format.EntryOption) error {
	return a.Add(format.NewSymlink(name, target, opts...))
}

// AddCharDev appends a character device entry with the given device
// numbers.
func (a *Archive) AddCharDev(name string, rdevmajor, rdevminor uint32, opts ...format.EntryOption) error {
	entry, err := format.NewCharDev(name, rdevmajor, rdevminor, opts...)
	if err != nil {
		return err
	}
	return a.Add(entry)
}

// Load decodes entries from r until the trailer or end of stream and
// appends them in archive order. Entries added before a decode failure
// are kept.
func (a *Archive) Load(r io.Reader) error {
	archiveReader := reader.NewReader(r, reader.WithLogger(a.log))
	for {
		entry, err := archiveReader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := a.Add(entry); err != nil {
			return err
		}
	}
}

// WriteTo encodes every entry in insertion order followed by the
// trailer, and reports the bytes written. The destination is closed if
// it is an io.Closer.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	archiveWriter := writer.NewWriter(w, writer.WithLogger(a.log))
	for _, name := range a.names {
		if err := archiveWriter.WriteEntry(a.entries[name]); err != nil {
			return archiveWriter.Written(), errors.Wrapf(err, "writing entry %q", name)
		}
	}
	if err := archiveWriter.Close(); err != nil {
		return archiveWriter.Written(), err
	}
	return archiveWriter.Written(), nil
}
