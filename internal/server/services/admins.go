package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/dmitrijs2005/parking/internal/dbx"
	"github.com/dmitrijs2005/parking/internal/server/auth"
	"github.com/dmitrijs2005/parking/internal/server/models"
	"github.com/dmitrijs2005/parking/internal/server/repositories/spaces"
	"github.com/google/uuid"
)

// AdminService implements administrator login and the back-office
// operations over users, guards and spaces.
type AdminService struct {
	deps Deps
}

func NewAdminService(d Deps) *AdminService {
	return &AdminService{deps: d}
}

func (s *AdminService) Login(ctx context.Context, in LoginInput) (*models.LoginResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	a, err := s.deps.Repos.Administrators(s.deps.DB).GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, wrap(err, "ADMIN_LOGIN_FAILED")
	}
	found := err == nil

	var digest string
	if found {
		digest = a.PasswordHash
	}
	if !checkPassword(s.deps.Hasher, found, digest, in.Password) {
		return nil, common.ErrInvalidCredentials
	}

	tok, err := s.deps.Sessions.Issue(a.ID, auth.RoleAdministrator)
	if err != nil {
		return nil, wrap(err, "SESSION_ISSUE_FAILED")
	}
	res := models.NewLoginResult(a.ID, a.Person, tok)
	return &res, nil
}

// Register creates an administrator. It backs both the HTTP route and the
// bootstrap command.
func (s *AdminService) Register(ctx context.Context, in RegisterAdminInput) (*models.AdministratorProfile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	digest, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		return nil, wrap(err, "ADMIN_PASSWORD_HASH_FAILED")
	}

	a := &models.Administrator{
		ID: uuid.NewString(),
		Person: models.Person{
			FirstName:  in.FirstName,
			LastName:   in.LastName,
			NationalID: in.NationalID,
			Email:      in.Email,
			Phone:      in.Phone,
		},
		PasswordHash: digest,
	}
	if err := s.deps.Repos.Administrators(s.deps.DB).Create(ctx, a); err != nil {
		return nil, wrap(err, "ADMIN_CREATE_FAILED", "email", in.Email)
	}

	s.deps.Logger.Info(ctx, "administrator registered", "admin_id", a.ID)
	p := a.Profile()
	return &p, nil
}

// CountAdministrators reports how many administrators exist.
func (s *AdminService) CountAdministrators(ctx context.Context) (int, error) {
	n, err := s.deps.Repos.Administrators(s.deps.DB).Count(ctx)
	if err != nil {
		return 0, wrap(err, "ADMIN_COUNT_FAILED")
	}
	return n, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	out, err := s.deps.Repos.Users(s.deps.DB).List(ctx)
	if err != nil {
		return nil, wrap(err, "USER_LIST_FAILED")
	}
	return out, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.deps.Repos.Users(s.deps.DB).Delete(ctx, id); err != nil {
		return wrap(err, "USER_DELETE_FAILED", "user_id", id)
	}
	s.deps.Logger.Info(ctx, "user deleted", "user_id", id)
	return nil
}

func (s *AdminService) ListGuards(ctx context.Context) ([]models.GuardProfile, error) {
	out, err := s.deps.Repos.Guards(s.deps.DB).List(ctx)
	if err != nil {
		return nil, wrap(err, "GUARD_LIST_FAILED")
	}
	return out, nil
}

// DeactivateGuard disables a guard; the guard can no longer log in.
func (s *AdminService) DeactivateGuard(ctx context.Context, id string) (*models.GuardProfile, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	p, err := s.deps.Repos.Guards(s.deps.DB).SetActive(ctx, id, false)
	if err != nil {
		return nil, wrap(err, "GUARD_DEACTIVATE_FAILED", "guard_id", id)
	}
	s.deps.Logger.Info(ctx, "guard deactivated", "guard_id", id)
	return p, nil
}

func (s *AdminService) AvailableSpaces(ctx context.Context) ([]models.ParkingSpace, error) {
	out, err := s.deps.Repos.Spaces(s.deps.DB).List(ctx, spaces.Filter{AvailableOnly: true})
	if err != nil {
		return nil, wrap(err, "SPACE_LIST_FAILED")
	}
	return out, nil
}

// RegisterGuard creates a guard. When a space is assigned, its existence is
// checked in the same transaction as the insert.
func (s *AdminService) RegisterGuard(ctx context.Context, in RegisterGuardInput) (*models.GuardProfile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	digest, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		return nil, wrap(err, "GUARD_PASSWORD_HASH_FAILED")
	}

	g := &models.Guard{
		ID: uuid.NewString(),
		Person: models.Person{
			FirstName:  in.FirstName,
			LastName:   in.LastName,
			NationalID: in.NationalID,
			Email:      in.Email,
			Phone:      in.Phone,
		},
		PasswordHash:   digest,
		Shift:          in.Shift,
		ParkingSpaceID: in.ParkingSpaceID,
	}

	err = dbx.WithTx(ctx, s.deps.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if g.ParkingSpaceID != nil {
			if _, err := s.deps.Repos.Spaces(tx).GetByID(ctx, *g.ParkingSpaceID); err != nil {
				return err
			}
		}
		return s.deps.Repos.Guards(tx).Create(ctx, g)
	})
	if err != nil {
		return nil, wrap(err, "GUARD_CREATE_FAILED", "email", in.Email)
	}

	s.deps.Logger.Info(ctx, "guard registered", "guard_id", g.ID)
	p := g.Profile()
	return &p, nil
}
