package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/microloan/backend/internal/domain/partner"
	"github.com/microloan/backend/internal/domain/shared"
)

// newMockClientRepository creates a GormClientRepository with a mocked SQL connection
func newMockClientRepository(t *testing.T) (*GormClientRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormClientRepository(gormDB), mock, mockDB
}

func TestGormClientRepository_FindByID(t *testing.T) {
	t.Run("finds existing client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "document_number", "status", "version"}).
			AddRow(clientID, "Maria", "Gonzalez", "30123456", "ACTIVE", 1)

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE id = \$1.*`).
			WithArgs(clientID, 1).
			WillReturnRows(rows)

		client, err := repo.FindByID(context.Background(), clientID)

		assert.NoError(t, err)
		assert.NotNil(t, client)
		assert.Equal(t, clientID, client.ID)
		assert.Equal(t, "Maria Gonzalez", client.FullName())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE id = \$1.*`).
			WithArgs(clientID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		client, err := repo.FindByID(context.Background(), clientID)

		assert.Error(t, err)
		assert.Nil(t, client)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_FindByDocumentNumber(t *testing.T) {
	t.Run("finds client by document number", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "document_number", "status", "version"}).
			AddRow(clientID, "Maria", "Gonzalez", "30123456", "ACTIVE", 1)

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE document_number = \$1.*`).
			WithArgs("30123456", 1).
			WillReturnRows(rows)

		client, err := repo.FindByDocumentNumber(context.Background(), "30123456")

		assert.NoError(t, err)
		assert.NotNil(t, client)
		assert.Equal(t, "30123456", client.DocumentNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_Count(t *testing.T) {
	t.Run("counts clients by status", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		active := partner.ClientStatusActive

		mock.ExpectQuery(`SELECT count\(\*\) FROM "clients" WHERE status = \$1.*`).
			WithArgs(active).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.Count(context.Background(), partner.ClientFilter{Status: &active})

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_SoftDelete(t *testing.T) {
	t.Run("marks client as deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()

		mock.ExpectExec(`UPDATE "clients" SET "deleted_at"=\$1 WHERE id = \$2.*`).
			WithArgs(sqlmock.AnyArg(), clientID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SoftDelete(context.Background(), clientID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()

		mock.ExpectExec(`UPDATE "clients" SET "deleted_at"=\$1 WHERE id = \$2.*`).
			WithArgs(sqlmock.AnyArg(), clientID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SoftDelete(context.Background(), clientID)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_InterfaceCompliance(t *testing.T) {
	repo, _, mockDB := newMockClientRepository(t)
	defer mockDB.Close()

	var _ partner.ClientRepository = repo
}
