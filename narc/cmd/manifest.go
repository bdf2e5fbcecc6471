package cmd

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/indrora/newc/newc/archive"
	"github.com/indrora/newc/newc/manifest"
)

// manifestCmd represents the manifest command
var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Export or show a CBOR manifest of an archive's metadata",
	Long: `Produce a compact CBOR document describing every entry of the
archive (name, type, mode, owner, size, digest). The manifest is a
sidecar for external tooling, not part of the archive itself.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		show, _ := cmd.Flags().GetBool("show")

		fileh, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer fileh.Close()

		contents := archive.New()
		if err := contents.Load(fileh); err != nil {
			return err
		}
		m := manifest.FromArchive(contents)

		if show {
			spew.Fdump(cmd.OutOrStdout(), m)
			return nil
		}
		if output == "" {
			output = args[0] + ".manifest"
		}
		out, err := os.Create(output)
		if err != nil {
			return err
		}
		defer out.Close()
		if err := m.Write(out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote manifest for %d entries to %s\n",
			len(m.Entries), output)
		return nil
	},
	Example: "narc manifest initramfs.cpio -o initramfs.manifest",
}

func init() {
	rootCmd.AddCommand(manifestCmd)
	manifestCmd.Flags().StringP("output", "o", "", "Manifest file to write (default ARCHIVE.manifest)")
	manifestCmd.Flags().Bool("show", false, "Dump the manifest to the terminal instead of writing it")
}
