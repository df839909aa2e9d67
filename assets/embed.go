// Package assets holds data compiled into the binary: the built-in region
// reference table and the SQL migrations for the results database.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed regions.json
var regionsJSON []byte

//go:embed sql/*.sql
var migrations embed.FS

// RegionsJSON returns the embedded reference table (a JSON array of regions).
func RegionsJSON() []byte {
	out := make([]byte, len(regionsJSON))
	copy(out, regionsJSON)
	return out
}

// Migrations returns the embedded migration files rooted at "sql".
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "sql")
	if err != nil {
		// fs.Sub only fails on an invalid path, and "sql" is a literal.
		panic(err)
	}
	return sub
}
