package database

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup by id or slug matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique column (the article slug) clashes.
var ErrDuplicate = errors.New("already exists")

// Timestamps are stored as UTC unix milliseconds.

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func toNullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*t), Valid: true}
}

func fromNullMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromMillis(v.Int64)
	return &t
}

type rowScanner interface {
	Scan(dest ...any) error
}
