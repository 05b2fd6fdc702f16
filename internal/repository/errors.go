package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
)

const (
	pgInsufficientPrivilege = "42501"
	pgUniqueViolation       = "23505"
)

// isDuplicate 唯一约束冲突；sqlite 驱动只暴露错误文本
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// wrapErr 把驱动错误映射到 apperr 分类
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("%s: not found", op)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInsufficientPrivilege {
		return fmt.Errorf("%s: %w", op, apperr.Permission(err))
	}
	if isDuplicate(err) {
		return apperr.Conflict("%s: record already exists", op)
	}
	return apperr.Backend(op, err)
}
