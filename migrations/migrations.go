// Package migrations embeds the SQL schema files applied by
// internal/migration.Runner, one subdirectory per supported backend.
package migrations

import "embed"

//go:embed sqlite postgres
var FS embed.FS
