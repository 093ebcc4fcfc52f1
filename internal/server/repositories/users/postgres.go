package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/dmitrijs2005/parking/internal/dbx"
	"github.com/dmitrijs2005/parking/internal/server/auth"
	"github.com/dmitrijs2005/parking/internal/server/models"
)

const profileColumns = `id, nombre, apellido, cedula, email, telefono, estado,
		 email_confirmed, placa_vehiculo, parking_space_id, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, u *models.User) error {
	query :=
		`INSERT INTO users (id, nombre, apellido, cedula, email, password_hash, telefono,
		 placa_vehiculo, token, token_expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING estado, email_confirmed, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		u.ID, u.FirstName, u.LastName, u.NationalID, u.Email, u.PasswordHash, u.Phone,
		u.VehiclePlate, u.Token, u.TokenExpiresAt,
	).Scan(&u.Active, &u.EmailConfirmed, &u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		switch {
		case dbx.IsUniqueViolation(err, "users_email_key"):
			return fmt.Errorf("%w: email %s is already registered", common.ErrAlreadyExists, u.Email)
		case dbx.IsUniqueViolation(err, "users_placa_vehiculo_key"):
			return fmt.Errorf("%w: vehicle plate %s is already registered", common.ErrAlreadyExists, u.VehiclePlate)
		case dbx.IsUniqueViolation(err, ""):
			return fmt.Errorf("%w: %v", common.ErrAlreadyExists, err)
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query :=
		`SELECT id, nombre, apellido, cedula, email, password_hash, telefono, estado,
		 token, token_expires_at, email_confirmed, placa_vehiculo, parking_space_id,
		 created_at, updated_at
		 FROM users ` + where

	u := &models.User{}
	var (
		token   sql.NullString
		expires sql.NullTime
		space   sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.NationalID, &u.Email, &u.PasswordHash, &u.Phone, &u.Active,
		&token, &expires, &u.EmailConfirmed, &u.VehiclePlate, &space,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if token.Valid {
		u.Token = &token.String
	}
	if expires.Valid {
		u.TokenExpiresAt = &expires.Time
	}
	if space.Valid {
		u.ParkingSpaceID = &space.String
	}
	return u, nil
}

// FindProfile loads the user without the password digest or pending token.
func (r *PostgresRepository) FindProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM users WHERE id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) FindProfileByEmailAndPlate(ctx context.Context, email, plate string) (*models.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM users WHERE email = $1 AND placa_vehiculo = $2`
	return scanProfile(r.db.QueryRowContext(ctx, query, email, plate))
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM users ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.UserProfile{}
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

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

// SetToken replaces any pending token with token.
func (r *PostgresRepository) SetToken(ctx context.Context, id, token string, expiresAt *time.Time) error {
	query :=
		`UPDATE users SET token = $2, token_expires_at = $3, updated_at = now()
		 WHERE id = $1
		 `
	res, err := r.db.ExecContext(ctx, query, id, token, expiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

// ConfirmEmail consumes token and marks the owner's e-mail as confirmed in a
// single conditional update. It returns the owner's id.
func (r *PostgresRepository) ConfirmEmail(ctx context.Context, token string, now time.Time) (string, error) {
	query :=
		`UPDATE users SET email_confirmed = TRUE, token = NULL, token_expires_at = NULL, updated_at = now()
		 WHERE token = $1 AND (token_expires_at IS NULL OR token_expires_at > $2)
		 RETURNING id
		 `
	return r.matchToken(ctx, query, token, now)
}

// ResetPassword consumes token and stores passwordHash in a single
// conditional update. It returns the owner's id.
func (r *PostgresRepository) ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) (string, error) {
	query :=
		`UPDATE users SET password_hash = $3, token = NULL, token_expires_at = NULL, updated_at = now()
		 WHERE token = $1 AND (token_expires_at IS NULL OR token_expires_at > $2)
		 RETURNING id
		 `
	return r.matchToken(ctx, query, token, now, passwordHash)
}

// FindByPendingToken reports the owner of token without consuming it.
func (r *PostgresRepository) FindByPendingToken(ctx context.Context, token string, now time.Time) (string, error) {
	query :=
		`SELECT id FROM users
		 WHERE token = $1 AND (token_expires_at IS NULL OR token_expires_at > $2)
		 `
	return r.matchToken(ctx, query, token, now)
}

func (r *PostgresRepository) matchToken(ctx context.Context, query, token string, now time.Time, extra ...any) (string, error) {
	if token == "" {
		return "", common.ErrInvalidOrExpiredToken
	}

	args := append([]any{token, now}, extra...)

	var id string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrInvalidOrExpiredToken
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (*models.UserProfile, error) {
	query :=
		`UPDATE users SET nombre = $2, apellido = $3, telefono = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + profileColumns

	return scanProfile(r.db.QueryRowContext(ctx, query, id, p.FirstName, p.LastName, p.Phone))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (*models.UserProfile, error) {
	p := &models.UserProfile{Role: auth.RoleUser.String()}
	var space sql.NullString
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.NationalID, &p.Email, &p.Phone, &p.Active,
		&p.EmailConfirmed, &p.VehiclePlate, &space, &p.CreatedAt)
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

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
