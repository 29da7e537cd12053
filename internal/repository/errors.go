package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a lookup by id (and owner) matches no row.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned by a conditional write whose row no longer holds
// the values it was read with.
var ErrConflict = errors.New("record changed since it was read")

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
