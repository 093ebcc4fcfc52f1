package services

import (
	"context"

	"github.com/dmitrijs2005/parking/internal/server/models"
	"github.com/dmitrijs2005/parking/internal/server/repositories/spaces"
	"github.com/google/uuid"
)

// SpaceService manages the parking-space inventory.
type SpaceService struct {
	deps Deps
}

func NewSpaceService(d Deps) *SpaceService {
	return &SpaceService{deps: d}
}

func (s *SpaceService) repo() spaces.Repository {
	return s.deps.Repos.Spaces(s.deps.DB)
}

// Create registers a space. New spaces are available unless the input says
// otherwise.
func (s *SpaceService) Create(ctx context.Context, in SpaceInput) (*models.ParkingSpace, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	sp := &models.ParkingSpace{
		ID:         uuid.NewString(),
		Number:     in.Number,
		Block:      in.Block,
		Kind:       in.Kind,
		Dimensions: in.Dimensions,
		Available:  in.Available == nil || *in.Available,
	}
	if err := s.repo().Create(ctx, sp); err != nil {
		return nil, wrap(err, "SPACE_CREATE_FAILED", "numero", in.Number, "bloque", in.Block)
	}
	return sp, nil
}

func (s *SpaceService) List(ctx context.Context) ([]models.ParkingSpace, error) {
	return s.list(ctx, spaces.Filter{})
}

func (s *SpaceService) ListAvailable(ctx context.Context) ([]models.ParkingSpace, error) {
	return s.list(ctx, spaces.Filter{AvailableOnly: true})
}

func (s *SpaceService) list(ctx context.Context, f spaces.Filter) ([]models.ParkingSpace, error) {
	out, err := s.repo().List(ctx, f)
	if err != nil {
		return nil, wrap(err, "SPACE_LIST_FAILED")
	}
	return out, nil
}

func (s *SpaceService) Get(ctx context.Context, id string) (*models.ParkingSpace, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	sp, err := s.repo().GetByID(ctx, id)
	if err != nil {
		return nil, wrap(err, "SPACE_GET_FAILED", "space_id", id)
	}
	return sp, nil
}

func (s *SpaceService) Update(ctx context.Context, id string, in SpaceInput) (*models.ParkingSpace, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := checkID(id); err != nil {
		return nil, err
	}

	sp, err := s.repo().Update(ctx, id, spaces.Update{
		Number:     in.Number,
		Block:      in.Block,
		Kind:       in.Kind,
		Dimensions: in.Dimensions,
		Available:  in.Available,
		Reserved:   in.Reserved,
	})
	if err != nil {
		return nil, wrap(err, "SPACE_UPDATE_FAILED", "space_id", id)
	}
	return sp, nil
}

func (s *SpaceService) SetActive(ctx context.Context, id string, in SpaceStateInput) (*models.ParkingSpace, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := checkID(id); err != nil {
		return nil, err
	}

	sp, err := s.repo().SetActive(ctx, id, *in.Active)
	if err != nil {
		return nil, wrap(err, "SPACE_SET_STATE_FAILED", "space_id", id)
	}
	s.deps.Logger.Info(ctx, "space state changed", "space_id", id, "estado", *in.Active)
	return sp, nil
}
