// Package gamedata loads the immutable species, move, location, trainer, and
// type-chart data the engine runs on. Default content is embedded at build time.
package gamedata

import (
	"embed"
	"io/fs"
)

//go:embed data/*.yaml
var embedded embed.FS

// DefaultFS returns the embedded default content rooted at its data directory.
func DefaultFS() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic("gamedata: embedded data directory missing: " + err.Error())
	}
	return sub
}
