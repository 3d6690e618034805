// Command ns boots and runs a NewScript image file.
//
// pixelgl needs access to the main OS thread, so main defers everything
// to pixelgl.Run, matching bradford-hamilton-chippy/main.go.
package main

import (
	"github.com/faiface/pixel/pixelgl"

	"github.com/cthulhuology/newscript/cmd/ns/cmd"
)

func main() {
	pixelgl.Run(cmd.Execute)
}
