// Package users persists user identities, including the pending single-use
// token used by the e-mail confirmation and password reset flows.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/parking/internal/server/models"
)

// ProfileUpdate lists the fields a user may change on their own profile.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Phone     string
}

type Repository interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	FindProfile(ctx context.Context, id string) (*models.UserProfile, error)
	FindProfileByEmailAndPlate(ctx context.Context, email, plate string) (*models.UserProfile, error)
	List(ctx context.Context) ([]models.UserProfile, error)
	Delete(ctx context.Context, id string) error

	SetToken(ctx context.Context, id, token string, expiresAt *time.Time) error
	ConfirmEmail(ctx context.Context, token string, now time.Time) (string, error)
	FindByPendingToken(ctx context.Context, token string, now time.Time) (string, error)
	ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) (string, error)

	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (*models.UserProfile, error)
}
