package spaces

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/dmitrijs2005/parking/internal/dbx"
	"github.com/dmitrijs2005/parking/internal/server/models"
)

const columns = `id, numero, bloque, tipo, disponibilidad, dimensiones, reservado, estado, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.ParkingSpace) error {
	query :=
		`INSERT INTO parking_spaces (id, numero, bloque, tipo, disponibilidad, dimensiones)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING reservado, estado, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, s.ID, s.Number, s.Block, s.Kind, s.Available, s.Dimensions).
		Scan(&s.Reserved, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return mapWriteError(err, s.Number, s.Block)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.ParkingSpace, error) {
	return scanSpace(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM parking_spaces WHERE id = $1`, id))
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]models.ParkingSpace, error) {
	query := `SELECT ` + columns + ` FROM parking_spaces WHERE estado = TRUE`
	if f.AvailableOnly {
		query += ` AND disponibilidad = TRUE`
	}
	query += ` ORDER BY bloque, numero`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.ParkingSpace{}
	for rows.Next() {
		s, err := scanSpace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// Update overwrites the descriptive fields. Nil Available or Reserved keep
// their stored values.
func (r *PostgresRepository) Update(ctx context.Context, id string, u Update) (*models.ParkingSpace, error) {
	query :=
		`UPDATE parking_spaces SET numero = $2, bloque = $3, tipo = $4, dimensiones = $5,
		 disponibilidad = COALESCE($6, disponibilidad), reservado = COALESCE($7, reservado),
		 updated_at = now()
		 WHERE id = $1
		 RETURNING ` + columns

	s, err := scanSpace(r.db.QueryRowContext(ctx, query, id, u.Number, u.Block, u.Kind, u.Dimensions, u.Available, u.Reserved))
	if err != nil && dbx.IsUniqueViolation(err, "") {
		return nil, mapWriteError(err, u.Number, u.Block)
	}
	return s, err
}

func (r *PostgresRepository) SetActive(ctx context.Context, id string, active bool) (*models.ParkingSpace, error) {
	query :=
		`UPDATE parking_spaces SET estado = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + columns
	return scanSpace(r.db.QueryRowContext(ctx, query, id, active))
}

func mapWriteError(err error, number int, block string) error {
	if dbx.IsUniqueViolation(err, "") {
		return fmt.Errorf("%w: space %d in block %s is already registered", common.ErrAlreadyExists, number, block)
	}
	return fmt.Errorf("db error: %w", err)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSpace(row scanner) (*models.ParkingSpace, error) {
	s := &models.ParkingSpace{}
	err := row.Scan(&s.ID, &s.Number, &s.Block, &s.Kind, &s.Available, &s.Dimensions, &s.Reserved, &s.Active,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}
