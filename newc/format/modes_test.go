package format

import (
	"errors"
	"testing"
)

func TestTypeFromMode(t *testing.T) {
	testCases := []struct {
		mode     Mode
		expected EntryType
	}{
		{ModeRegular | 0644, TypeFile},
		{ModeDir | 0755, TypeDirectory},
		{ModeSymlink | 0777, TypeSymlink},
		{ModeChar | 0600, TypeCharDevice},
		{ModeBlock | 0600, TypeBlockDevice},
		{ModeFifo | 0644, TypeFifo},
		{ModeSocket | 0755, TypeSocket},
	}

	for _, tc := range testCases {
		got, err := TypeFromMode(tc.mode)
		if err != nil {
			t.Errorf("TypeFromMode(%07o): unexpected error: %v", uint32(tc.mode), err)
			continue
		}
		if got != tc.expected {
			t.Errorf("TypeFromMode(%07o) = %s, want %s", uint32(tc.mode), got, tc.expected)
		}
		if got.Mode() != tc.mode&ModeTypeMask {
			t.Errorf("%s.Mode() = %07o, want %07o", got, uint32(got.Mode()), uint32(tc.mode&ModeTypeMask))
		}
	}
}

func TestTypeFromModeUnknown(t *testing.T) {
	// Permission bits alone carry no type.
	if _, err := TypeFromMode(0644); !errors.Is(err, ErrUnknownEntryType) {
		t.Errorf("expected ErrUnknownEntryType, got %v", err)
	}
}

func TestModePerm(t *testing.T) {
	m := ModeRegular | 0640
	if m.Perm() != 0640 {
		t.Errorf("Perm() = %04o, want 0640", uint32(m.Perm()))
	}
}
