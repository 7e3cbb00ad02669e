// Package migrations embeds the goose migrations shared by the SQL ledger
// stores.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
