package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/dmitrijs2005/parking/internal/dbx"
	"github.com/dmitrijs2005/parking/internal/server/auth"
	"github.com/dmitrijs2005/parking/internal/server/mail"
	"github.com/dmitrijs2005/parking/internal/server/models"
	"github.com/dmitrijs2005/parking/internal/server/repositories/users"
	"github.com/google/uuid"
)

// UserService implements the user flows: registration with e-mail
// confirmation, login, password reset and self-service profile changes.
type UserService struct {
	deps Deps
}

func NewUserService(d Deps) *UserService {
	return &UserService{deps: d}
}

func (s *UserService) repo() users.Repository {
	return s.deps.Repos.Users(s.deps.DB)
}

// Register stores a new, unconfirmed user with a pending confirmation token
// and mails the confirmation link. Mail failures do not undo the record.
func (s *UserService) Register(ctx context.Context, in RegisterUserInput) (*models.UserProfile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	digest, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		return nil, wrap(err, "USER_PASSWORD_HASH_FAILED")
	}
	tok, err := s.deps.Tokens.Issue()
	if err != nil {
		return nil, wrap(err, "USER_TOKEN_ISSUE_FAILED")
	}

	u := &models.User{
		ID: uuid.NewString(),
		Person: models.Person{
			FirstName:  in.FirstName,
			LastName:   in.LastName,
			NationalID: in.NationalID,
			Email:      in.Email,
			Phone:      in.Phone,
		},
		PasswordHash:   digest,
		VehiclePlate:   in.VehiclePlate,
		Token:          &tok.Value,
		TokenExpiresAt: tok.ExpiresAt,
	}
	if err := s.repo().Create(ctx, u); err != nil {
		return nil, wrap(err, "USER_CREATE_FAILED", "email", in.Email)
	}

	s.deps.Logger.Info(ctx, "user registered", "user_id", u.ID)
	s.deps.deliver(ctx, func() (mail.Message, error) {
		return s.deps.Composer.Confirmation(u.Email, u.FirstName, tok.Value)
	}, "confirmation")

	p := u.Profile()
	return &p, nil
}

// ConfirmEmail consumes token and marks its owner as confirmed.
func (s *UserService) ConfirmEmail(ctx context.Context, token string) error {
	id, err := s.repo().ConfirmEmail(ctx, token, s.deps.now())
	if err != nil {
		return wrap(err, "USER_CONFIRM_FAILED")
	}
	s.deps.Logger.Info(ctx, "user e-mail confirmed", "user_id", id)
	return nil
}

// Login rejects unconfirmed accounts before the password is checked.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.LoginResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo().GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, wrap(err, "USER_LOGIN_FAILED")
	}
	found := err == nil

	if found && !u.EmailConfirmed {
		return nil, common.ErrEmailNotConfirmed
	}
	if found && !u.Active {
		return nil, common.ErrInactiveAccount
	}

	var digest string
	if found {
		digest = u.PasswordHash
	}
	if !checkPassword(s.deps.Hasher, found, digest, in.Password) {
		return nil, common.ErrInvalidCredentials
	}

	tok, err := s.deps.Sessions.Issue(u.ID, auth.RoleUser)
	if err != nil {
		return nil, wrap(err, "SESSION_ISSUE_FAILED")
	}
	res := models.NewLoginResult(u.ID, u.Person, tok)
	return &res, nil
}

// RequestPasswordReset replaces any pending token with a fresh one and mails
// the reset link.
func (s *UserService) RequestPasswordReset(ctx context.Context, in PasswordResetRequestInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	u, err := s.repo().GetByEmail(ctx, in.Email)
	if err != nil {
		return wrap(err, "USER_RESET_LOOKUP_FAILED")
	}

	tok, err := s.deps.Tokens.Issue()
	if err != nil {
		return wrap(err, "USER_TOKEN_ISSUE_FAILED")
	}
	if err := s.repo().SetToken(ctx, u.ID, tok.Value, tok.ExpiresAt); err != nil {
		return wrap(err, "USER_TOKEN_STORE_FAILED", "user_id", u.ID)
	}

	s.deps.deliver(ctx, func() (mail.Message, error) {
		return s.deps.Composer.PasswordReset(u.Email, u.FirstName, tok.Value)
	}, "password_reset")
	return nil
}

// CheckResetToken reports whether token is pending, without consuming it.
func (s *UserService) CheckResetToken(ctx context.Context, token string) error {
	if _, err := s.repo().FindByPendingToken(ctx, token, s.deps.now()); err != nil {
		return wrap(err, "USER_TOKEN_CHECK_FAILED")
	}
	return nil
}

// ResetPassword consumes token and stores the new password in one update.
func (s *UserService) ResetPassword(ctx context.Context, token string, in NewPasswordInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	digest, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		return wrap(err, "USER_PASSWORD_HASH_FAILED")
	}

	id, err := s.repo().ResetPassword(ctx, token, digest, s.deps.now())
	if err != nil {
		return wrap(err, "USER_RESET_FAILED")
	}
	s.deps.Logger.Info(ctx, "user password reset", "user_id", id)
	return nil
}

// ChangePassword verifies the current password and stores the new one. The
// read and the write share a transaction.
func (s *UserService) ChangePassword(ctx context.Context, id string, in ChangePasswordInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	err := dbx.WithTx(ctx, s.deps.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.deps.Repos.Users(tx)

		u, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !s.deps.Hasher.Verify(in.CurrentPassword, u.PasswordHash) {
			return fmt.Errorf("%w: current password is incorrect", common.ErrInvalidCredentials)
		}

		digest, err := s.deps.Hasher.Hash(in.NewPassword)
		if err != nil {
			return err
		}
		return repo.UpdatePassword(ctx, id, digest)
	})
	if err != nil {
		return wrap(err, "USER_CHANGE_PASSWORD_FAILED", "user_id", id)
	}
	return nil
}

// UpdateProfile lets callerID edit only their own record.
func (s *UserService) UpdateProfile(ctx context.Context, callerID, targetID string, in UpdateUserProfileInput) (*models.UserProfile, error) {
	if err := checkID(targetID); err != nil {
		return nil, err
	}
	if callerID != targetID {
		return nil, common.ErrNotOwner
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo().UpdateProfile(ctx, targetID, users.ProfileUpdate{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
	})
	if err != nil {
		return nil, wrap(err, "USER_UPDATE_PROFILE_FAILED", "user_id", targetID)
	}
	return p, nil
}
