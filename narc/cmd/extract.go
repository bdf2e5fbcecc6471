package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/indrora/newc/newc/format"
	"github.com/indrora/newc/newc/reader"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Unpack a CPIO archive",
	Long:  `Unpack a given archive to the given path (default ".")`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		fileh, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer fileh.Close()

		archiveReader := reader.NewReader(fileh)
		for {
			entry, err := archiveReader.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			if err := extractEntry(output, entry); err != nil {
				return err
			}
		}
	},
	Example: "narc extract initramfs.cpio --output ./rootfs",
}

func extractEntry(root string, entry *format.Entry) error {
	name := entry.Name()
	if !filepath.IsLocal(name) {
		return fmt.Errorf("refusing to extract non-local name %q", name)
	}
	dest := filepath.Join(root, filepath.FromSlash(name))
	perm := fs.FileMode(entry.Header.Mode.Perm())

	switch entry.Type {
	case format.TypeDirectory:
		return os.MkdirAll(dest, perm)
	case format.TypeFile:
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		return os.WriteFile(dest, entry.Data(), perm)
	case format.TypeSymlink:
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		return os.Symlink(entry.Target(), dest)
	case format.TypeCharDevice:
		// mknod needs privileges we usually don't have
		logrus.Warnf("skipping device node %s (%d:%d)", name,
			entry.Header.Rdevmajor, entry.Header.Rdevminor)
		return nil
	default:
		logrus.Warnf("skipping %s entry %s", entry.Type, name)
		return nil
	}
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringP("output", "o", ".", "Directory to unpack into")
}
