// Package assets embeds the default shader sources.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed shaders/*.kage
var files embed.FS

// Shaders returns the embedded shader directory, with file names at its
// root.
func Shaders() fs.FS {
	sub, err := fs.Sub(files, "shaders")
	if err != nil {
		panic(err)
	}
	return sub
}
