package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned by updates and deletes that match no row.
var ErrNotFound = errors.New("not found")

// expectAffected turns a zero-row result into ErrNotFound.
func expectAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
