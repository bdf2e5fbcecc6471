package format

// Mode mirrors the on-wire mode field: POSIX type bits in the high
// nibble plus permission bits.
type Mode uint32

const (
	ModeTypeMask Mode = 0170000
	ModePermMask Mode = 0007777

	ModeFifo    Mode = 0010000
	ModeChar    Mode = 0020000
	ModeDir     Mode = 0040000
	ModeBlock   Mode = 0060000
	ModeRegular Mode = 0100000
	ModeSymlink Mode = 0120000
	ModeSocket  Mode = 0140000
)

// Perm returns the permission bits of the mode.
func (m Mode) Perm() Mode {
	return m & ModePermMask
}

// EntryType is the closed set of entry kinds, decoded once from the
// mode field's type bits and immutable afterwards.
type EntryType uint8

const (
	TypeFile EntryType = iota
	TypeDirectory
	TypeSymlink
	TypeCharDevice
	TypeBlockDevice
	TypeFifo
	TypeSocket
)

func (t EntryType) String() string {
	switch t {
	case TypeFile:
		return "File"
	case TypeDirectory:
		return "Dir"
	case TypeSymlink:
		return "Symlink"
	case TypeCharDevice:
		return "CharDev"
	case TypeBlockDevice:
		return "BlockDev"
	case TypeFifo:
		return "FIFO"
	case TypeSocket:
		return "Socket"
	default:
		return "Unknown"
	}
}

// HasPayload reports whether entries of this type carry payload bytes.
// Symlinks do: their payload is the link target.
func (t EntryType) HasPayload() bool {
	return t == TypeFile || t == TypeSymlink
}

// Mode returns the type bits for this entry type.
func (t EntryType) Mode() Mode {
	switch t {
	case TypeFile:
		return ModeRegular
	case TypeDirectory:
		return ModeDir
	case TypeSymlink:
		return ModeSymlink
	case TypeCharDevice:
		return ModeChar
	case TypeBlockDevice:
		return ModeBlock
	case TypeFifo:
		return ModeFifo
	case TypeSocket:
		return ModeSocket
	default:
		return 0
	}
}

// TypeFromMode maps the mode field's type bits onto an EntryType.
// Unrecognized bit patterns fail with ErrUnknownEntryType.
func TypeFromMode(m Mode) (EntryType, error) {
	switch m & ModeTypeMask {
	case ModeRegular:
		return TypeFile, nil
	case ModeDir:
		return TypeDirectory, nil
	case ModeSymlink:
		return TypeSymlink, nil
	case ModeChar:
		return TypeCharDevice, nil
	case ModeBlock:
		return TypeBlockDevice, nil
	case ModeFifo:
		return TypeFifo, nil
	case ModeSocket:
		return TypeSocket, nil
	default:
		return 0, ErrUnknownEntryType
	}
}
