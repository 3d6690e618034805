// Package cmd implements the nsc command line: create an image file and
// compile stdin into it. Grounded on bradford-hamilton-chippy/cmd's cobra
// root layout.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cthulhuology/newscript/internal/compiler"
	"github.com/cthulhuology/newscript/internal/image"
)

// rootCmd is nsc's entire command surface: one positional image path,
// source read from stdin, per spec.md §6's `nsc IMAGE_FILE`.
var rootCmd = &cobra.Command{
	Use:   "nsc IMAGE_FILE",
	Short: "compile NewScript source from stdin into an image file",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: nsc IMAGE_FILE")
			os.Exit(0)
		}
		return nil
	},
	Run: runCompile,
}

// Execute runs the nsc command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCompile(cmd *cobra.Command, args []string) {
	path := args[0]

	img, err := image.Create(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
	defer img.Close()

	c := compiler.New(img, os.Stdin)
	if err := c.Compile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
