package migrations

import "embed"

// FS contains embedded SQLite migrations for combat storage.
//
//go:embed *.sql
var FS embed.FS
