package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/parking/internal/logging"
	"github.com/dmitrijs2005/parking/internal/server/auth"
	"github.com/dmitrijs2005/parking/internal/server/models"
	"github.com/dmitrijs2005/parking/internal/server/services"
)

type UserService interface {
	Register(ctx context.Context, in services.RegisterUserInput) (*models.UserProfile, error)
	ConfirmEmail(ctx context.Context, token string) error
	Login(ctx context.Context, in services.LoginInput) (*models.LoginResult, error)
	RequestPasswordReset(ctx context.Context, in services.PasswordResetRequestInput) error
	CheckResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, token string, in services.NewPasswordInput) error
	ChangePassword(ctx context.Context, id string, in services.ChangePasswordInput) error
	UpdateProfile(ctx context.Context, callerID, targetID string, in services.UpdateUserProfileInput) (*models.UserProfile, error)
}

type GuardService interface {
	Login(ctx context.Context, in services.LoginInput) (*models.LoginResult, error)
	ActiveSpaces(ctx context.Context) ([]models.ParkingSpace, error)
	NotifyAvailableSpaces(ctx context.Context, in services.NotifySpacesInput) error
	UpdateProfile(ctx context.Context, callerID, targetID string, in services.UpdateGuardProfileInput) (*models.GuardProfile, error)
}

type AdminService interface {
	Login(ctx context.Context, in services.LoginInput) (*models.LoginResult, error)
	Register(ctx context.Context, in services.RegisterAdminInput) (*models.AdministratorProfile, error)
	ListUsers(ctx context.Context) ([]models.UserProfile, error)
	DeleteUser(ctx context.Context, id string) error
	ListGuards(ctx context.Context) ([]models.GuardProfile, error)
	DeactivateGuard(ctx context.Context, id string) (*models.GuardProfile, error)
	AvailableSpaces(ctx context.Context) ([]models.ParkingSpace, error)
	RegisterGuard(ctx context.Context, in services.RegisterGuardInput) (*models.GuardProfile, error)
}

type SpaceService interface {
	Create(ctx context.Context, in services.SpaceInput) (*models.ParkingSpace, error)
	List(ctx context.Context) ([]models.ParkingSpace, error)
	ListAvailable(ctx context.Context) ([]models.ParkingSpace, error)
	Get(ctx context.Context, id string) (*models.ParkingSpace, error)
	Update(ctx context.Context, id string, in services.SpaceInput) (*models.ParkingSpace, error)
	SetActive(ctx context.Context, id string, in services.SpaceStateInput) (*models.ParkingSpace, error)
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type handlers struct {
	users  UserService
	guards GuardService
	admins AdminService
	spaces SpaceService
	db     Pinger
	logger logging.Logger
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, h.logger, err)
}

// caller returns the principal the gate attached to r.
func caller(r *http.Request) *auth.Principal {
	p, _ := auth.PrincipalFromContext(r.Context())
	return p
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			h.logger.Warn(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) notFound(w http.ResponseWriter, _ *http.Request) {
	writeMsg(w, http.StatusNotFound, "endpoint not found")
}
