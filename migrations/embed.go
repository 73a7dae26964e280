// Package migrations holds the goose migrations for tables owned by the
// import service.
package migrations

import "embed"

// FS contains every *.sql migration in version order.
//
//go:embed *.sql
var FS embed.FS
