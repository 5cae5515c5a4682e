// Package migrations registers the schema migrations. Each dated file embeds
// its SQL and registers an up/down pair.
package migrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
