// Package migrations holds the versioned schema, applied once at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
