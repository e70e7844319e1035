// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., mysql) inside this directory.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrUnknownKind is returned when a stored row carries a variant tag no
// product constructor handles.
var ErrUnknownKind = errors.New("unknown product kind")

// Querier is the statement surface repositories run on. *database.Manager
// satisfies it.
type Querier interface {
	Results(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	Execute(ctx context.Context, query string, args ...any) (sql.Result, error)
}
