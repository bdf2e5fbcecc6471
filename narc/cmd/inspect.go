package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/indrora/newc/newc/reader"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Investigate the contents of a CPIO archive",
	Long: `Investigate and show the structure of a newc archive: one
record per entry with its header fields, content digest and
type-specific detail.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dump, _ := cmd.Flags().GetBool("dump")

		for _, filename := range args {
			fmt.Println(filename)
			fileh, err := os.Open(filename)
			if err != nil {
				fmt.Println(err)
				continue
			}

			archiveReader := reader.NewReader(fileh)
			for {
				entry, err := archiveReader.Next()
				if errors.Is(err, io.EOF) {
					fmt.Println("Reached end of archive.")
					break
				}
				if err != nil {
					fmt.Println("Failed to read record:")
					fmt.Println(err)
					fileh.Close()
					os.Exit(1)
				}

				fmt.Println("====== Record ======")
				fmt.Println(entry)
				if dump {
					spew.Dump(entry.Header)
				}
			}

			fileh.Close()
		}
	},
	Example: "narc inspect initramfs.cpio",
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("dump", false, "Dump raw header structures")
}
