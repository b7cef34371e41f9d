package bootstrap

import (
	"context"
	"testing"

	"shayarihub/internal/config"
	"shayarihub/internal/models"
	"shayarihub/internal/repository"
	"shayarihub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestEnsureSuperAdmin_CreatesAccount(t *testing.T) {
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	cfg := &config.Config{SuperAdminUsername: "Ustad", SuperAdminPassword: "qalam123"}

	require.NoError(t, EnsureSuperAdmin(context.Background(), cfg, users))

	root, err := users.GetByUsername(context.Background(), "ustad")
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.Equal(t, models.RoleSuperAdmin, root.Role)
	assert.Equal(t, "ustad@shayarihub.local", root.Email)
	assert.True(t, root.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(root.Password), []byte("qalam123")))

	// Second run is a no-op.
	require.NoError(t, EnsureSuperAdmin(context.Background(), cfg, users))
	assert.Equal(t, int64(1), testutil.CountRows(t, db, &models.User{}, "role = ?", models.RoleSuperAdmin))
}

func TestEnsureSuperAdmin_PromotesExisting(t *testing.T) {
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	existing := testutil.CreateUser(t, db, "ghalib")
	cfg := &config.Config{SuperAdminUsername: "Ghalib", SuperAdminPassword: "ignored"}

	require.NoError(t, EnsureSuperAdmin(context.Background(), cfg, users))

	got, err := users.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, got.Role)
	assert.Equal(t, existing.Password, got.Password)
}

func TestEnsureSuperAdmin_Disabled(t *testing.T) {
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)

	require.NoError(t, EnsureSuperAdmin(context.Background(), &config.Config{}, users))
	assert.Zero(t, testutil.CountRows(t, db, &models.User{}, "1 = 1"))

	err := EnsureSuperAdmin(context.Background(), &config.Config{SuperAdminUsername: "root"}, users)
	assert.Error(t, err)
}
