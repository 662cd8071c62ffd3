package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"
)

// newTestDatabase opens a migrated in-memory SQLite database
func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := Open(sqlite.Open(sqliteDSN(":memory:")), logger.Discard)
	require.NoError(t, err)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// newMockDatabase creates a Database backed by sqlmock speaking the postgres dialect
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}), logger.Discard)
	require.NoError(t, err)
	return db, mock, mockDB
}

func TestNewDatabase_SQLite(t *testing.T) {
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         ":memory:",
		MaxOpenConns: 5,
		MaxIdleConns: 1,
		AutoMigrate:  true,
	}, logger.Discard)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, config.DriverSQLite, db.Driver)
	assert.NoError(t, db.Ping(context.Background()))
	assert.True(t, db.DB.Migrator().HasTable(&models.ProductModel{}))
	assert.True(t, db.DB.Migrator().HasTable("cart_items"))

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "oracle"}, logger.Discard)
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?_foreign_keys=on", sqliteDSN(":memory:"))
	assert.Equal(t, "file:data/store.db?_foreign_keys=on&_busy_timeout=5000", sqliteDSN("data/store.db"))
}

func TestDatabase_Ping(t *testing.T) {
	db, _, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	assert.NoError(t, db.Ping(context.Background()))
}

func TestDatabase_Do(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		err := db.Do(context.Background(), func(ctx context.Context) error {
			assert.NotNil(t, ctx.Value(txKey{}))
			return nil
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := db.Do(context.Background(), func(ctx context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested call joins the outer transaction", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		err := db.Do(context.Background(), func(ctx context.Context) error {
			return db.Do(ctx, func(inner context.Context) error {
				assert.Same(t, ctx.Value(txKey{}), inner.Value(txKey{}))
				return nil
			})
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDatabase_DoRollsBackRepositoryWrites(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	repo := NewGormCollectionRepository(db.DB)

	c := newTestCollection(t, "Rolled back")
	err := db.Do(ctx, func(ctx context.Context) error {
		require.NoError(t, repo.Save(ctx, c))
		return shared.ErrInvalidState
	})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	_, err = repo.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
