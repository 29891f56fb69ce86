// Package migrations embeds the schema of the console client's local
// SQLite database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
