// Command nsc reads NewScript source from stdin and compiles it into an
// image file.
package main

import (
	"github.com/cthulhuology/newscript/cmd/nsc/cmd"
)

func main() {
	cmd.Execute()
}
