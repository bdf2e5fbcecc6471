package archive_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/indrora/newc/newc/archive"
	"github.com/indrora/newc/newc/format"
)

func mustWriteFile(t *testing.T, path string, data []byte, perm os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, data, perm); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEntryFromPath(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "hello.txt"), []byte("hello"), 0640)

	entry, err := archive.EntryFromPath(filepath.Join(dir, "hello.txt"), "hello.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Type != format.TypeFile {
		t.Errorf("type = %s, want File", entry.Type)
	}
	if !bytes.Equal(entry.Data(), []byte("hello")) {
		t.Errorf("payload = %q, want %q", entry.Data(), "hello")
	}
	if entry.Header.Mode.Perm() != 0640 {
		t.Errorf("perm = %04o, want 0640", uint32(entry.Header.Mode.Perm()))
	}
	if entry.Header.Mtime == 0 {
		t.Error("mtime was not taken from the file")
	}
}

func TestEntryFromPathSymlinkToDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "real"), 0755); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.Symlink("real", filepath.Join(dir, "link")); err != nil {
		t.Skipf("cannot create symlinks here: %v", err)
	}

	// A symlink to a directory must classify as a symlink, not a
	// directory.
	entry, err := archive.EntryFromPath(filepath.Join(dir, "link"), "link")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Type != format.TypeSymlink {
		t.Errorf("type = %s, want Symlink", entry.Type)
	}
	if entry.Target() != "real" {
		t.Errorf("target = %q, want %q", entry.Target(), "real")
	}
	if entry.Header.Filesize != int64(len("real")) {
		t.Errorf("filesize = %d, want %d", entry.Header.Filesize, len("real"))
	}
}

func TestAppendRecursive(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "etc"), 0755); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mustWriteFile(t, filepath.Join(dir, "etc", "hostname"), []byte("gopher\n"), 0644)
	mustWriteFile(t, filepath.Join(dir, "top.txt"), []byte("top"), 0644)

	a := archive.New()
	if err := a.AppendRecursive(dir, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Root itself is skipped when names are relative.
	if _, ok := a.Get("."); ok {
		t.Error("relative walk stored the root itself")
	}
	for _, name := range []string{"etc", "etc/hostname", "top.txt"} {
		if _, ok := a.Get(name); !ok {
			t.Errorf("missing entry %q; have %v", name, a.Names())
		}
	}

	entry, _ := a.Get("etc/hostname")
	if !bytes.Equal(entry.Data(), []byte("gopher\n")) {
		t.Errorf("payload = %q, want %q", entry.Data(), "gopher\n")
	}
	dirEntry, _ := a.Get("etc")
	if dirEntry.Type != format.TypeDirectory {
		t.Errorf("etc type = %s, want Dir", dirEntry.Type)
	}
}

func TestEntryFromPathUnsupported(t *testing.T) {
	if _, err := archive.EntryFromPath(filepath.Join(t.TempDir(), "missing"), ""); err == nil {
		t.Error("expected an error for a missing path")
	}
}
