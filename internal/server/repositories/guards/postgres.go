package guards

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

const profileColumns = `id, nombre, apellido, cedula, email, telefono, turno, estado, parking_space_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, g *models.Guard) error {
	query :=
		`INSERT INTO guards (id, nombre, apellido, cedula, email, password_hash, telefono, turno, parking_space_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING estado, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		g.ID, g.FirstName, g.LastName, g.NationalID, g.Email, g.PasswordHash, g.Phone, g.Shift, g.ParkingSpaceID,
	).Scan(&g.Active, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err, "") {
			return fmt.Errorf("%w: email %s is already registered", common.ErrAlreadyExists, g.Email)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Guard, error) {
	query :=
		`SELECT id, nombre, apellido, cedula, email, password_hash, telefono, turno, estado,
		 parking_space_id, created_at, updated_at
		 FROM guards WHERE email = $1`

	g := &models.Guard{}
	var space sql.NullString
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&g.ID, &g.FirstName, &g.LastName, &g.NationalID, &g.Email, &g.PasswordHash, &g.Phone, &g.Shift, &g.Active,
		&space, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if space.Valid {
		g.ParkingSpaceID = &space.String
	}
	return g, nil
}

func (r *PostgresRepository) FindProfile(ctx context.Context, id string) (*models.GuardProfile, error) {
	return scanProfile(r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM guards WHERE id = $1`, id))
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.GuardProfile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM guards ORDER BY apellido, nombre`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.GuardProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) SetActive(ctx context.Context, id string, active bool) (*models.GuardProfile, error) {
	query :=
		`UPDATE guards SET estado = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + profileColumns
	return scanProfile(r.db.QueryRowContext(ctx, query, id, active))
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (*models.GuardProfile, error) {
	query :=
		`UPDATE guards SET nombre = $2, apellido = $3, telefono = $4, turno = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + profileColumns
	return scanProfile(r.db.QueryRowContext(ctx, query, id, p.FirstName, p.LastName, p.Phone, p.Shift))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (*models.GuardProfile, error) {
	p := &models.GuardProfile{Role: auth.RoleGuard.String()}
	var space sql.NullString
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.NationalID, &p.Email, &p.Phone, &p.Shift, &p.Active, &space)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if space.Valid {
		p.ParkingSpaceID = &space.String
	}
	return p, nil
}
