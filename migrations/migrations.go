// Package migrations embute os scripts SQL no binário.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
