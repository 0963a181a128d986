// Package db ships the SQL schema and sqlc query definitions.
package db

import "embed"

// Migrations holds the golang-migrate files applied at startup and in integration tests.
//
//go:embed migrations/*.sql
var Migrations embed.FS
