package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/indrora/newc/newc/archive"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a CPIO archive",
	Long: `Create a newc archive from a set of paths. Directories are
walked recursively; symlinks are stored, not followed.

example:

narc create initramfs.cpio ./rootfs`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archiveFname := args[0]
		archivePaths := args[1:]

		relative, _ := cmd.Flags().GetBool("relative")
		symlinks, _ := cmd.Flags().GetStringArray("symlink")
		chardevs, _ := cmd.Flags().GetStringArray("chardev")

		contents := archive.New()

		for _, pathn := range archivePaths {
			fi, err := os.Lstat(pathn)
			if err != nil {
				return err
			}
			if fi.IsDir() {
				err = contents.AppendRecursive(pathn, relative)
			} else {
				err = contents.AppendPath(pathn, "")
			}
			if err != nil {
				return err
			}
		}

		for _, spec := range symlinks {
			name, target, ok := strings.Cut(spec, ":")
			if !ok {
				return fmt.Errorf("bad --symlink %q, want NAME:TARGET", spec)
			}
			if err := contents.AddSymlink(name, target); err != nil {
				return err
			}
		}

		for _, spec := range chardevs {
			name, major, minor, err := parseCharDev(spec)
			if err != nil {
				return err
			}
			if err := contents.AddCharDev(name, major, minor); err != nil {
				return err
			}
		}

		out, err := os.Create(archiveFname)
		if err != nil {
			return err
		}

		written, err := contents.WriteTo(out)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d entries (%d bytes) to %s\n",
			contents.Len(), written, archiveFname)
		return nil
	},
	Example: "narc create initramfs.cpio ./rootfs --relative --chardev dev/console:5:1",
}

func parseCharDev(spec string) (string, uint32, uint32, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("bad --chardev %q, want NAME:MAJOR:MINOR", spec)
	}
	major, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return "", 0, 0, fmt.Errorf("bad major in --chardev %q: %w", spec, err)
	}
	minor, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return "", 0, 0, fmt.Errorf("bad minor in --chardev %q: %w", spec, err)
	}
	return parts[0], uint32(major), uint32(minor), nil
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().Bool("relative", false, "Store names relative to each directory argument")
	createCmd.Flags().StringArray("symlink", nil, "Add a symlink as NAME:TARGET (repeatable)")
	createCmd.Flags().StringArray("chardev", nil, "Add a character device as NAME:MAJOR:MINOR (repeatable)")
}
