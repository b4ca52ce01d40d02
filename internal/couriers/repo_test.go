package couriers

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tharanics/kiranakart-backend/pkg/db/models"
	"github.com/tharanics/kiranakart-backend/pkg/enums"
)

func setupCouriersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT,
  role TEXT NOT NULL DEFAULT 'CUSTOMER',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string, role enums.UserRole, active bool) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("%s@kiranakart.test", uuid.NewString()),
		PasswordHash: "x",
		Name:         name,
		Role:         role,
		IsActive:     active,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestListCouriersFiltersRoleAndActivity(t *testing.T) {
	db := setupCouriersTestDB(t)
	repo := NewRepository(db)

	seedUser(t, db, "Admin", enums.UserRoleAdmin, true)
	seedUser(t, db, "Benched", enums.UserRoleDelivery, false)
	active := seedUser(t, db, "Active", enums.UserRoleDelivery, true)

	list, err := repo.ListCouriers(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, active.ID, list[0].ID)

	all, err := repo.ListCouriers(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFindUser(t *testing.T) {
	db := setupCouriersTestDB(t)
	repo := NewRepository(db)

	courier := seedUser(t, db, "Courier", enums.UserRoleDelivery, true)

	found, err := repo.FindUser(context.Background(), courier.ID)
	require.NoError(t, err)
	assert.Equal(t, courier.Email, found.Email)

	_, err = repo.FindUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
