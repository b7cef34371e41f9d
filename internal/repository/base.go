// Package repository implements the data access layer for the application.
package repository

import (
	"errors"
	"math"
	"strings"

	"shayarihub/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// likesCountColumn projects the aggregate like count of the current shayari
// row as likes_count.
const likesCountColumn = "(SELECT COUNT(*) FROM likes WHERE likes.shayari_id = shayaris.id) AS likes_count"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns user input into a lower-cased LIKE pattern matching
// it as a literal substring. Use with ESCAPE '\' against a LOWER() column.
// Postgres LOWER folds every script; sqlite's built-in LOWER folds ASCII
// only, so non-ASCII case-insensitive matching holds on Postgres alone.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// isUniqueViolation recognises unique index failures from Postgres
// (SQLSTATE 23505) and sqlite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate key")
}

func notFoundOr(err error, resource string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

func offset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	if page-1 > math.MaxInt32/limit {
		return math.MaxInt32
	}
	return (page - 1) * limit
}
