/*
Package format implements the newc ("070701") CPIO header codec and the
typed entry model that sits on top of it.

A newc record is a 110-byte fixed header of ASCII-hex fields, followed by
a NUL-terminated name and the payload bytes, each padded out to a 4-byte
boundary. An archive is a plain concatenation of records terminated by a
sentinel entry named "TRAILER!!!".

See the CPIO man page: https://www.freebsd.org/cgi/man.cgi?query=cpio&sektion=5
*/
package format

import "github.com/pkg/errors"

const (
	// MagicNewc tags the newc (New ASCII) header variant. This is the
	// only variant the writer emits.
	MagicNewc = "070701"

	// MagicNewcCRC tags the newc variant with per-file checksums. It is
	// accepted on decode; the check field is carried but never verified.
	MagicNewcCRC = "070702"

	// HeaderLength is the fixed size of the encoded header: the 6-byte
	// magic plus 13 numeric fields of 8 hex characters each.
	HeaderLength = 110

	// TrailerName is the name of the sentinel entry that terminates
	// every archive.
	TrailerName = "TRAILER!!!"
)

var (
	ErrMalformedHeader      = errors.New("malformed header: bad magic or non-hex field")
	ErrFieldOverflow        = errors.New("header field does not fit in 32 bits")
	ErrUnknownEntryType     = errors.New("unknown mode type bits")
	ErrUnsupportedFileType  = errors.New("file type is not supported by this archive model")
	ErrMissingDeviceNumbers = errors.New("device entries require rdevmajor/rdevminor")
)
