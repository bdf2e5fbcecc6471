package archive

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/indrora/newc/newc/format"
)

// EntryFromPath builds an entry for a single filesystem path. name is
// the name stored in the archive; leave it empty to use the path with
// any leading slash stripped.
//
// The symlink check runs before the directory and file checks: a
// symlink to a directory is still a symlink.
func EntryFromPath(path, name string) (*format.Entry, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat %q", path)
	}
	if name == "" {
		name = strings.TrimPrefix(filepath.ToSlash(path), "/")
	}
	return entryFromFileInfo(path, name, fi)
}

func entryFromFileInfo(path, name string, fi fs.FileInfo) (*format.Entry, error) {
	ino, uid, gid, rdevmajor, rdevminor := statSys(fi)
	opts := []format.EntryOption{
		format.WithPermissions(format.Mode(fi.Mode().Perm())),
		format.WithMtime(fi.ModTime()),
		format.WithOwner(uid, gid),
		format.WithInode(ino),
	}

	mode := fi.Mode()
	switch {
	case mode&fs.ModeSymlink != 0:
		target, err := os.Readlink(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read link %q", path)
		}
		return format.NewSymlink(name, target, opts...), nil
	case mode.IsDir():
		return format.NewDirectory(name, opts...), nil
	case mode.IsRegular():
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %q", path)
		}
		return format.NewFile(name, data, opts...), nil
	case mode&fs.ModeCharDevice != 0:
		return format.NewCharDev(name, rdevmajor, rdevminor, opts...)
	default:
		return nil, errors.Wrapf(format.ErrUnsupportedFileType, "%q is %s", path, mode.Type())
	}
}

// AppendPath stats path and appends the resulting entry under name
// (empty name uses the path itself).
func (a *Archive) AppendPath(path, name string) error {
	entry, err := EntryFromPath(path, name)
	if err != nil {
		return err
	}
	return a.Add(entry)
}

// AppendRecursive walks root and appends an entry for everything found
// under it, the walk wrapper calling EntryFromPath per path. Symlinks
// are stored, never followed. When relative is set, entry names are
// taken relative to root and root itself is not stored.
func (a *Archive) AppendRecursive(root string, relative bool) error {
	root = filepath.Clean(root)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := filepath.ToSlash(path)
		if relative {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if rel == "." {
				return nil
			}
			name = filepath.ToSlash(rel)
		} else {
			name = strings.TrimPrefix(name, "/")
		}
		return a.AppendPath(path, name)
	})
}
