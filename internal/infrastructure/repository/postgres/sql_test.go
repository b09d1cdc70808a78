package postgres

import (
	"database/sql"
	"errors"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("expected sql.ErrNoRows to be not-found")
	}
	if isNotFound(errors.New("pq: connection refused")) {
		t.Fatal("expected unrelated errors to pass through")
	}
}
