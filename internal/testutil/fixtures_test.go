package testutil

import (
	"testing"

	"shayarihub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_BannedIsStored(t *testing.T) {
	db := NewDB(t)

	banned := CreateUser(t, db, "troll", Banned())
	active := CreateUser(t, db, "poet")

	tests := []struct {
		name string
		user *models.User
		want bool
	}{
		{"banned", banned, false},
		{"default", active, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.IsActive)

			var stored models.User
			require.NoError(t, db.First(&stored, tt.user.ID).Error)
			assert.Equal(t, tt.want, stored.IsActive)
		})
	}
}
