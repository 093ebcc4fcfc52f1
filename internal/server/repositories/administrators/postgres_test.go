package administrators

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/dmitrijs2005/parking/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()
	a := &models.Administrator{ID: "a-1", Person: models.Person{FirstName: "Ada", LastName: "L", NationalID: "9", Email: "ada@example.com", Phone: "1"}, PasswordHash: "h"}

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+administrators.*RETURNING\s+created_at,\s*updated_at`).
		WithArgs("a-1", "Ada", "L", "9", "ada@example.com", "h", "1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(context.Background(), a))
	assert.Equal(t, now, a.CreatedAt)
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`INSERT\s+INTO\s+administrators`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "administrators_email_key"})

	err := repo.Create(context.Background(), &models.Administrator{Person: models.Person{Email: "ada@example.com"}})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestGetByEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()
	mock.ExpectQuery(`(?s)^SELECT\s+id,.*password_hash.*FROM\s+administrators\s+WHERE\s+email\s*=\s*\$1$`).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "apellido", "cedula", "email", "password_hash", "telefono", "created_at", "updated_at"}).
			AddRow("a-1", "Ada", "L", "9", "ada@example.com", "h", "1", now, now))

	a, err := repo.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "h", a.PasswordHash)
}

func TestGetByEmail_Errors(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM\s+administrators`).WithArgs("none@example.com").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`FROM\s+administrators`).WithArgs("boom@example.com").WillReturnError(errors.New("boom"))

	_, err := repo.GetByEmail(context.Background(), "none@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = repo.GetByEmail(context.Background(), "boom@example.com")
	assert.ErrorContains(t, err, "db error: boom")
}

func TestFindProfile(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`^SELECT\s+id,\s*nombre,\s*apellido,\s*cedula,\s*email,\s*telefono\s+FROM\s+administrators\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("a-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "apellido", "cedula", "email", "telefono"}).
			AddRow("a-1", "Ada", "L", "9", "ada@example.com", "1"))

	p, err := repo.FindProfile(context.Background(), "a-1")
	require.NoError(t, err)
	assert.Equal(t, "administrador", p.Role)
	assert.Equal(t, "ada@example.com", p.Email)
}

func TestCount(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`^SELECT\s+COUNT\(\*\)\s+FROM\s+administrators$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
