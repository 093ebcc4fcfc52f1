package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/dmitrijs2005/parking/internal/server/auth"
	"github.com/dmitrijs2005/parking/internal/server/models"
	"github.com/dmitrijs2005/parking/internal/server/repositories/guards"
	"github.com/dmitrijs2005/parking/internal/server/repositories/spaces"
	"github.com/samber/oops"
)

// GuardService implements the guard flows.
type GuardService struct {
	deps Deps
}

func NewGuardService(d Deps) *GuardService {
	return &GuardService{deps: d}
}

func (s *GuardService) Login(ctx context.Context, in LoginInput) (*models.LoginResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	g, err := s.deps.Repos.Guards(s.deps.DB).GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, wrap(err, "GUARD_LOGIN_FAILED")
	}
	found := err == nil

	var digest string
	if found {
		digest = g.PasswordHash
	}
	if !checkPassword(s.deps.Hasher, found, digest, in.Password) {
		return nil, common.ErrInvalidCredentials
	}
	if !g.Active {
		return nil, common.ErrInactiveAccount
	}

	tok, err := s.deps.Sessions.Issue(g.ID, auth.RoleGuard)
	if err != nil {
		return nil, wrap(err, "SESSION_ISSUE_FAILED")
	}
	res := models.NewLoginResult(g.ID, g.Person, tok)
	return &res, nil
}

// ActiveSpaces lists every space that has not been deactivated, occupied
// or not.
func (s *GuardService) ActiveSpaces(ctx context.Context) ([]models.ParkingSpace, error) {
	out, err := s.deps.Repos.Spaces(s.deps.DB).List(ctx, spaces.Filter{})
	if err != nil {
		return nil, wrap(err, "SPACE_LIST_FAILED")
	}
	return out, nil
}

// NotifyAvailableSpaces mails the current list of available spaces to the
// user identified by e-mail and vehicle plate. Unlike the token flows, a
// failed send is returned to the caller.
func (s *GuardService) NotifyAvailableSpaces(ctx context.Context, in NotifySpacesInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	u, err := s.deps.Repos.Users(s.deps.DB).FindProfileByEmailAndPlate(ctx, in.Email, in.VehiclePlate)
	if err != nil {
		return wrap(err, "GUARD_NOTIFY_LOOKUP_FAILED")
	}

	list, err := s.deps.Repos.Spaces(s.deps.DB).List(ctx, spaces.Filter{AvailableOnly: true})
	if err != nil {
		return wrap(err, "SPACE_LIST_FAILED")
	}

	msg, err := s.deps.Composer.AvailableSpaces(u.Email, u.FirstName, list)
	if err != nil {
		return oops.Code("MAIL_RENDER_FAILED").Wrap(err)
	}
	if err := s.deps.Mailer.Send(ctx, msg); err != nil {
		return oops.Code("MAIL_DELIVERY_FAILED").With("user_id", u.ID).Wrap(err)
	}

	s.deps.Logger.Info(ctx, "available spaces sent", "user_id", u.ID, "spaces", len(list))
	return nil
}

// UpdateProfile lets callerID edit only their own record.
func (s *GuardService) UpdateProfile(ctx context.Context, callerID, targetID string, in UpdateGuardProfileInput) (*models.GuardProfile, error) {
	if err := checkID(targetID); err != nil {
		return nil, err
	}
	if callerID != targetID {
		return nil, common.ErrNotOwner
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p, err := s.deps.Repos.Guards(s.deps.DB).UpdateProfile(ctx, targetID, guards.ProfileUpdate{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Shift:     in.Shift,
	})
	if err != nil {
		return nil, wrap(err, "GUARD_UPDATE_PROFILE_FAILED", "guard_id", targetID)
	}
	return p, nil
}
