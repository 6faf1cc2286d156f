// Package database holds the versioned schema migrations. Each driver has its
// own directory of NNNNNN_name.up.sql / NNNNNN_name.down.sql pairs.
package database

import "embed"

//go:embed migrations/postgres/*.sql migrations/oracle/*.sql
var Migrations embed.FS

const (
	PostgresMigrationsDir = "migrations/postgres"
	OracleMigrationsDir   = "migrations/oracle"
)
