// Package migrations embeds the SQLite schema for the local state store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
