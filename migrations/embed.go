// Package migrations embeds the SQL schema applied at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Initial is the file name of the initial schema migration.
const Initial = "001_initial_schema.up.sql"
