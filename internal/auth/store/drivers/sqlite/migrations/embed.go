package migrations

import "embed"

// Migrations holds the golang-migrate files applied by Store.ApplyMigrations.
//
//go:embed *.sql
var Migrations embed.FS
