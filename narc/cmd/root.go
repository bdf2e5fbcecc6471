package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "narc",
	Short: "Narc is a Newc ARChive (CPIO) tool",
	Long: `Narc reads and writes CPIO archives in the newc (070701)
ASCII-hex format, the variant used for Linux initramfs images.
	`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func GenDocs() {
	if err := os.Mkdir("./docs/narc", 0775); err != nil && err != os.ErrExist {
		if errors.Is(err, os.ErrExist) {
			fmt.Println("Docs folder already exists, OK.")
		} else {
			fmt.Println("failed to make dir:", err)
			return
		}
	}
	err := doc.GenMarkdownTree(rootCmd, "./docs/narc")
	if err != nil {
		fmt.Println("failed to make docs:", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Write detailed information to the terminal")
}
