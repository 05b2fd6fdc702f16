package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
)

func TestWrapErr(t *testing.T) {
	assert.NoError(t, wrapErr("op", nil))
	assert.ErrorIs(t, wrapErr("op", gorm.ErrRecordNotFound), apperr.ErrNotFound)

	denied := &pgconn.PgError{Code: "42501", Message: "permission denied for table volunteers"}
	err := wrapErr("list volunteers", denied)
	assert.ErrorIs(t, err, apperr.ErrPermission)
	assert.NotErrorIs(t, err, apperr.ErrBackend)

	other := &pgconn.PgError{Code: "57P01", Message: "terminating connection"}
	assert.ErrorIs(t, wrapErr("list volunteers", other), apperr.ErrBackend)
	assert.ErrorIs(t, wrapErr("op", errors.New("io")), apperr.ErrBackend)
}

func TestWrapErr_Duplicate(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	err := wrapErr("create volunteer", unique)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.NotErrorIs(t, err, apperr.ErrBackend)

	assert.ErrorIs(t, wrapErr("op", gorm.ErrDuplicatedKey), apperr.ErrConflict)
	assert.ErrorIs(t, wrapErr("op", errors.New("UNIQUE constraint failed: volunteer_submissions.email")), apperr.ErrConflict)
}
