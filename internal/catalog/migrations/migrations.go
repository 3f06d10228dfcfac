// Package migrations embeds the development schema for the catalog database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
