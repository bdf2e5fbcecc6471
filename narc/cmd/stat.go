package cmd

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/xattr"
	"github.com/spf13/cobra"
)

// statCmd dumps what the filesystem reports for a path. Handy when an
// archived header doesn't match expectations.
var statCmd = &cobra.Command{
	Use:   "stat",
	Short: "Dump filesystem metadata for a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stat, err := os.Lstat(args[0])
		if err != nil {
			return err
		}
		spew.Dump(stat)
		listXattrs(args[0])
		return nil
	},
	Example: "narc stat /dev/console",
}

func listXattrs(file string) {
	fh, err := os.Open(file)
	if err != nil {
		return
	}
	defer fh.Close()
	attrs, err := xattr.FList(fh)
	if err != nil {
		return
	}
	for _, attrname := range attrs {
		value, err := xattr.FGet(fh, attrname)
		if err != nil {
			fmt.Println(attrname, " = ? (couldn't list: ", err, ")")
		} else {
			fmt.Println(attrname, "=", value)
		}
	}
}

func init() {
	rootCmd.AddCommand(statCmd)
}
