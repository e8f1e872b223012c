// Package templates embeds the default files `spl init` materializes.
package templates

import (
	"embed"
	"io/fs"
	"path"
)

//go:embed config.toml
var files embed.FS

// Read returns the embedded template with the given name.
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}

// Walk visits the embedded templates under root.
func Walk(root string, fn fs.WalkDirFunc) error {
	return fs.WalkDir(files, path.Clean(root), fn)
}
