// Package migrations содержит SQL-миграции goose для обоих драйверов.
package migrations

import "embed"

// FS holds postgres/ and sqlite/ migration directories.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

const (
	DirPostgres = "postgres"
	DirSQLite   = "sqlite"
)
