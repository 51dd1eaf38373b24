// Package migrations встраивает SQL-миграции в бинарник сервера.
package migrations

import "embed"

// Dir — каталог миграций PostgreSQL внутри FS.
const Dir = "postgres"

//go:embed postgres/*.sql
var FS embed.FS
