package administrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/dmitrijs2005/parking/internal/dbx"
	"github.com/dmitrijs2005/parking/internal/server/auth"
	"github.com/dmitrijs2005/parking/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Administrator) error {
	query :=
		`INSERT INTO administrators (id, nombre, apellido, cedula, email, password_hash, telefono)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.FirstName, a.LastName, a.NationalID, a.Email, a.PasswordHash, a.Phone,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err, "") {
			return fmt.Errorf("%w: email %s is already registered", common.ErrAlreadyExists, a.Email)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Administrator, error) {
	query :=
		`SELECT id, nombre, apellido, cedula, email, password_hash, telefono, created_at, updated_at
		 FROM administrators WHERE email = $1`

	a := &models.Administrator{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.NationalID, &a.Email, &a.PasswordHash, &a.Phone, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// FindProfile loads the administrator without the password digest.
func (r *PostgresRepository) FindProfile(ctx context.Context, id string) (*models.AdministratorProfile, error) {
	query := `SELECT id, nombre, apellido, cedula, email, telefono FROM administrators WHERE id = $1`

	p := &models.AdministratorProfile{Role: auth.RoleAdministrator.String()}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.FirstName, &p.LastName, &p.NationalID, &p.Email, &p.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM administrators`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
