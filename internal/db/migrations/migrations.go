// Package migrations embeds the SQL migration files applied by goose on boot.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
