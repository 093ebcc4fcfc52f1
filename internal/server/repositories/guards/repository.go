// Package guards persists guard identities.
package guards

import (
	"context"

	"github.com/dmitrijs2005/parking/internal/server/models"
)

// ProfileUpdate lists the fields a guard may change on their own profile.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Phone     string
	Shift     string
}

type Repository interface {
	Create(ctx context.Context, g *models.Guard) error
	GetByEmail(ctx context.Context, email string) (*models.Guard, error)
	FindProfile(ctx context.Context, id string) (*models.GuardProfile, error)
	List(ctx context.Context) ([]models.GuardProfile, error)
	SetActive(ctx context.Context, id string, active bool) (*models.GuardProfile, error)
	UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (*models.GuardProfile, error)
}
