package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		limit int
		total int64
		pages int
	}{
		{"empty", 10, 0, 0},
		{"exact", 10, 20, 2},
		{"remainder", 10, 21, 3},
		{"single", 10, 1, 1},
		{"zero limit", 0, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewPagination(1, tt.limit, tt.total)
			assert.Equal(t, tt.pages, p.Pages)
			assert.Equal(t, tt.total, p.Total)
		})
	}
}

func TestAppErrorStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, fiber.StatusBadRequest, NewValidationError("x").Status())
	assert.Equal(t, fiber.StatusBadRequest, NewConflictError("dup", nil).Status())
	assert.Equal(t, fiber.StatusUnauthorized, NewUnauthorizedError("x").Status())
	assert.Equal(t, fiber.StatusForbidden, NewForbiddenError("x").Status())
	assert.Equal(t, fiber.StatusNotFound, NewNotFoundError("User", 1).Status())
	assert.Equal(t, fiber.StatusInternalServerError, NewInternalError(errors.New("boom")).Status())
}

func TestHasCodeUnwrapsChains(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("ban user: %w", NewForbiddenError("banned"))
	assert.True(t, HasCode(wrapped, CodeForbidden))
	assert.False(t, HasCode(wrapped, CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeForbidden))
}

func TestShayariVisibleTo(t *testing.T) {
	t.Parallel()

	private := Shayari{AuthorID: 7, Visibility: VisibilityPrivate}
	assert.True(t, private.VisibleTo(7))
	assert.False(t, private.VisibleTo(8))
	assert.False(t, private.VisibleTo(0))

	public := Shayari{AuthorID: 7, Visibility: VisibilityPublic}
	assert.True(t, public.VisibleTo(0))

	assert.False(t, Visibility("friends").Valid())
}

func TestCanonicalUsername(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "mirza_ghalib", CanonicalUsername("  Mirza_Ghalib "))
}
