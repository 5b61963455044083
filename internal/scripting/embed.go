package scripting

import (
	"embed"
	"io/fs"
)

//go:embed scripts/*.lua
var embedded embed.FS

// DefaultFS returns the embedded status-move scripts.
func DefaultFS() fs.FS {
	sub, err := fs.Sub(embedded, "scripts")
	if err != nil {
		panic("scripting: embedded scripts directory missing: " + err.Error())
	}
	return sub
}
