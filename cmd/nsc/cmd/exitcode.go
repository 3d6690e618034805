package cmd

import (
	"errors"
	"io/fs"
)

// Exit codes, per spec.md §6. nsc only ever fails at image.Create, so
// NoFile (can't create/open the file) and NoMap (mmap failed) are the
// only codes reachable here.
const (
	exitOK     = 0
	exitNoFile = 2
	exitNoMap  = 3
)

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, fs.ErrPermission), errors.Is(err, fs.ErrNotExist):
		return exitNoFile
	default:
		return exitNoMap
	}
}
