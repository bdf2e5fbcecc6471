package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/indrora/newc/newc/archive"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the contents of a CPIO archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fileh, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer fileh.Close()

		contents := archive.New()
		if err := contents.Load(fileh); err != nil {
			return err
		}
		for _, name := range contents.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
	Example: "narc list initramfs.cpio",
}

func init() {
	rootCmd.AddCommand(listCmd)
}
