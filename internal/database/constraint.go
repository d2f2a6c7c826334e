package database

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// UniqueViolation reports whether err is a UNIQUE or PRIMARY KEY constraint
// failure and, if so, returns the "table.column" list SQLite named.
func UniqueViolation(err error) (string, bool) {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return "", false
	}
	if sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique &&
		sqliteErr.ExtendedCode != sqlite3.ErrConstraintPrimaryKey {
		return "", false
	}
	msg := sqliteErr.Error()
	if idx := strings.Index(msg, "constraint failed: "); idx >= 0 {
		return msg[idx+len("constraint failed: "):], true
	}
	return msg, true
}

// ViolatesColumn reports whether err is a uniqueness failure on the given
// table column.
func ViolatesColumn(err error, table, column string) bool {
	cols, ok := UniqueViolation(err)
	if !ok {
		return false
	}
	return strings.Contains(cols, table+"."+column)
}
