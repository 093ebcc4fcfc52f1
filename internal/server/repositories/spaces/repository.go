// Package spaces persists the parking-space inventory.
package spaces

import (
	"context"

	"github.com/dmitrijs2005/parking/internal/server/models"
)

// Filter narrows List. Zero value lists every active space.
type Filter struct {
	AvailableOnly bool
}

// Update holds the editable attributes of a space.
type Update struct {
	Number     int
	Block      string
	Kind       string
	Dimensions string
	Available  *bool
	Reserved   *bool
}

type Repository interface {
	Create(ctx context.Context, s *models.ParkingSpace) error
	GetByID(ctx context.Context, id string) (*models.ParkingSpace, error)
	List(ctx context.Context, f Filter) ([]models.ParkingSpace, error)
	Update(ctx context.Context, id string, u Update) (*models.ParkingSpace, error)
	SetActive(ctx context.Context, id string, active bool) (*models.ParkingSpace, error)
}
