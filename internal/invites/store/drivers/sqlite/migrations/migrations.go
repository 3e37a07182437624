// Package migrations embeds the SQL schema history for the sqlite driver.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
