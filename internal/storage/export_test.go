package storage

import (
	"database/sql"
	"strings"
)

// DB exposes the internal *sql.DB for test helpers in storage_test.
// This file only compiles during `go test`.
func (s *Store) DB() *sql.DB {
	return s.db
}

// FailExec makes every Exec whose query contains fragment return err.
func (s *Store) FailExec(fragment string, err error) {
	s.hooks.exec = func(db execer, query string, args ...any) (sql.Result, error) {
		if strings.Contains(query, fragment) {
			return nil, err
		}
		return db.Exec(query, args...)
	}
}

// FailQuery makes every Query whose text contains fragment return err.
func (s *Store) FailQuery(fragment string, err error) {
	s.hooks.query = func(db queryer, query string, args ...any) (*sql.Rows, error) {
		if strings.Contains(query, fragment) {
			return nil, err
		}
		return db.Query(query, args...)
	}
}
