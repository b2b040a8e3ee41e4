package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/apex/backoffice/internal/domain/partner"
	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM DB backed by a mocked SQL connection
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
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

	return gormDB, mock, mockDB
}

func TestNewGormClientRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		db, _, mockDB := newMockDB(t)
		defer mockDB.Close()

		repo := NewGormClientRepository(db)
		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormClientRepository_FindByID(t *testing.T) {
	t.Run("finds existing client", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormClientRepository(db)

		clientID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "version", "name", "cpf", "phone", "email"}).
			AddRow(clientID, 1, "João da Silva", "123.456.789-00", "+55 11 99999-0000", "joao@example.com")

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(clientID, 1).
			WillReturnRows(rows)

		client, err := repo.FindByID(context.Background(), clientID)

		assert.NoError(t, err)
		assert.NotNil(t, client)
		assert.Equal(t, clientID, client.ID)
		assert.Equal(t, "João da Silva", client.Name)
		assert.Equal(t, "123.456.789-00", client.CPF)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing client", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormClientRepository(db)

		clientID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(clientID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		client, err := repo.FindByID(context.Background(), clientID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, client)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_FindByCPF(t *testing.T) {
	t.Run("finds client by CPF", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormClientRepository(db)

		clientID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "version", "name", "cpf"}).
			AddRow(clientID, 1, "Maria Souza", "987.654.321-00")

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE cpf = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("987.654.321-00", 1).
			WillReturnRows(rows)

		client, err := repo.FindByCPF(context.Background(), "987.654.321-00")

		assert.NoError(t, err)
		assert.Equal(t, "Maria Souza", client.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects empty CPF without hitting the database", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormClientRepository(db)

		client, err := repo.FindByCPF(context.Background(), "")

		assert.Error(t, err)
		assert.Nil(t, client)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_FindAll(t *testing.T) {
	t.Run("applies search and pagination", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormClientRepository(db)

		rows := sqlmock.NewRows([]string{"id", "version", "name"}).
			AddRow(uuid.New(), 1, "Ana").
			AddRow(uuid.New(), 1, "Antonio")

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE name ILIKE .* ORDER BY name ASC LIMIT .*`).
			WillReturnRows(rows)

		filter := shared.DefaultFilter()
		filter.Search = "An"
		filter.OrderBy = ""

		clients, err := repo.FindAll(context.Background(), filter)

		assert.NoError(t, err)
		assert.Len(t, clients, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_Delete(t *testing.T) {
	t.Run("deletes existing client", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormClientRepository(db)

		clientID := uuid.New()

		mock.ExpectExec(`DELETE FROM "clients" WHERE id = \$1`).
			WithArgs(clientID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), clientID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing was deleted", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormClientRepository(db)

		clientID := uuid.New()

		mock.ExpectExec(`DELETE FROM "clients" WHERE id = \$1`).
			WithArgs(clientID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), clientID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_Count(t *testing.T) {
	t.Run("counts clients matching filter", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormClientRepository(db)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "clients"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.Count(context.Background(), shared.Filter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_ImplementsInterface(t *testing.T) {
	var _ partner.ClientRepository = (*GormClientRepository)(nil)
}
