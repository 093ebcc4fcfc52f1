// Package administrators persists administrator identities.
package administrators

import (
	"context"

	"github.com/dmitrijs2005/parking/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Administrator) error
	GetByEmail(ctx context.Context, email string) (*models.Administrator, error)
	FindProfile(ctx context.Context, id string) (*models.AdministratorProfile, error)
	Count(ctx context.Context) (int, error)
}
