// Package migrations holds the embedded goose SQL migrations for the
// default (unprefixed) table layout. Deployments that set TABLE_PREFIX
// share a database with another environment and manage schema out of band.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
