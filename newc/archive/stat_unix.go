//go:build unix

package archive

import (
	"io/fs"
	"syscall"

	"golang.org/x/sys/unix"
)

// statSys pulls the inode, ownership and device numbers out of the
// platform stat structure.
func statSys(fi fs.FileInfo) (ino uint64, uid, gid, rdevmajor, rdevminor uint32) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, 0, 0, 0
	}
	return st.Ino, st.Uid, st.Gid,
		unix.Major(uint64(st.Rdev)), unix.Minor(uint64(st.Rdev))
}
