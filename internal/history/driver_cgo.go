//go:build cgo_sqlite

package history

import _ "github.com/mattn/go-sqlite3"

const sqliteDriver = "sqlite3"
