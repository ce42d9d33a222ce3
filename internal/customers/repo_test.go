package customers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
)

func setupCustomersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  phone_digits TEXT NOT NULL UNIQUE,
  city TEXT,
  points INTEGER NOT NULL DEFAULT 0,
  reward_available INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec("DELETE FROM customers").Error)

	return db
}

func seedCustomer(t *testing.T, db *gorm.DB, phone string) *models.Customer {
	t.Helper()

	customer := &models.Customer{
		ID:          uuid.New(),
		Name:        "Dana",
		Phone:       phone,
		PhoneDigits: NormalizePhone(phone),
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func TestRepositoryFindByPhoneDigits(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	seeded := seedCustomer(t, db, "(503) 555-0100")

	found, err := repo.FindByPhoneDigits(context.Background(), "5035550100")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)

	_, err = repo.FindByPhoneDigits(context.Background(), "0000000000")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositorySearchByPhoneFragment(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	seedCustomer(t, db, "503-555-0100")
	seedCustomer(t, db, "503-555-0199")
	seedCustomer(t, db, "212-555-0100")

	results, err := repo.SearchByPhone(context.Background(), "503-555", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = repo.SearchByPhone(context.Background(), "0100", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRepositoryUpdatePreservesIdentity(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	seeded := seedCustomer(t, db, "503-555-0100")

	seeded.Name = "Dana Q"
	seeded.Points = 4
	updated, err := repo.Update(context.Background(), seeded)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, updated.ID)

	found, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana Q", found.Name)
	assert.Equal(t, 4, found.Points)
}

func TestRepositoryUniquePhoneDigits(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	seedCustomer(t, db, "503-555-0100")

	_, err := repo.Create(context.Background(), &models.Customer{
		ID:          uuid.New(),
		Name:        "Other",
		Phone:       "(503) 555 0100",
		PhoneDigits: "5035550100",
	})
	assert.Error(t, err)
}
