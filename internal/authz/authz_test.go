package authz

import (
	"testing"

	"shayarihub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizeRankMatrix(t *testing.T) {
	t.Parallel()

	roles := []models.Role{models.RoleUser, models.RoleAdmin, models.RoleSuperAdmin, "moderator", ""}
	for _, actual := range roles {
		for _, required := range roles {
			err := Authorize(actual, required)
			if Rank(actual) >= Rank(required) {
				assert.NoError(t, err, "%s vs %s", actual, required)
			} else {
				assert.ErrorIs(t, err, ErrInsufficientRank, "%s vs %s", actual, required)
			}
		}
	}
}

func TestRankUnknownIsLowest(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Rank("root"))
	assert.Equal(t, 0, Rank(models.RoleUser))
	assert.Equal(t, 1, Rank(models.RoleAdmin))
	assert.Equal(t, 2, Rank(models.RoleSuperAdmin))
	assert.Error(t, Authorize("root", models.RoleAdmin))
}

func TestRequire(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		actor    *Actor
		required models.Role
		want     error
	}{
		{"anonymous", nil, models.RoleUser, ErrUnauthenticated},
		{"zero id", &Actor{Role: models.RoleAdmin, IsActive: true}, models.RoleUser, ErrUnauthenticated},
		{"banned admin", &Actor{ID: 1, Role: models.RoleAdmin, IsActive: false}, models.RoleAdmin, ErrBanned},
		{"user needs admin", &Actor{ID: 1, Role: models.RoleUser, IsActive: true}, models.RoleAdmin, ErrInsufficientRank},
		{"admin ok", &Actor{ID: 1, Role: models.RoleAdmin, IsActive: true}, models.RoleAdmin, nil},
		{"super admin ok", &Actor{ID: 1, Role: models.RoleSuperAdmin, IsActive: true}, models.RoleAdmin, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Require(tt.actor, tt.required)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNotSelf(t *testing.T) {
	t.Parallel()

	actor := &Actor{ID: 5, Role: models.RoleSuperAdmin, IsActive: true}
	assert.ErrorIs(t, NotSelf(actor, 5), ErrSelfTarget)
	assert.NoError(t, NotSelf(actor, 6))
}

func TestCanAssign(t *testing.T) {
	t.Parallel()

	admin := &Actor{ID: 1, Role: models.RoleAdmin, IsActive: true}
	super := &Actor{ID: 2, Role: models.RoleSuperAdmin, IsActive: true}

	_, err := CanAssign(admin, "super_admin")
	assert.ErrorIs(t, err, ErrRoleChange)
	assert.True(t, models.HasCode(err, models.CodeForbidden))

	_, err = CanAssign(admin, "admin")
	assert.ErrorIs(t, err, ErrRoleChange)

	role, err := CanAssign(super, "super_admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, role)

	_, err = CanAssign(super, "owner")
	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.True(t, models.HasCode(err, models.CodeValidation))

	_, err = CanAssign(&Actor{ID: 3, Role: models.RoleSuperAdmin}, "user")
	assert.ErrorIs(t, err, ErrBanned)
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"user", "admin", "super_admin"} {
		_, ok := ParseRole(s)
		assert.True(t, ok, s)
	}
	_, ok := ParseRole("Admin")
	assert.False(t, ok)
}
