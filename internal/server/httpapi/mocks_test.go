package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/dmitrijs2005/parking/internal/logging"
	"github.com/dmitrijs2005/parking/internal/server/auth"
	"github.com/dmitrijs2005/parking/internal/server/models"
	"github.com/dmitrijs2005/parking/internal/server/services"
	"github.com/stretchr/testify/mock"
)

type mockUsers struct{ mock.Mock }

func (m *mockUsers) Register(ctx context.Context, in services.RegisterUserInput) (*models.UserProfile, error) {
	args := m.Called(ctx, in)
	p, _ := args.Get(0).(*models.UserProfile)
	return p, args.Error(1)
}

func (m *mockUsers) ConfirmEmail(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockUsers) Login(ctx context.Context, in services.LoginInput) (*models.LoginResult, error) {
	args := m.Called(ctx, in)
	r, _ := args.Get(0).(*models.LoginResult)
	return r, args.Error(1)
}

func (m *mockUsers) RequestPasswordReset(ctx context.Context, in services.PasswordResetRequestInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *mockUsers) CheckResetToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockUsers) ResetPassword(ctx context.Context, token string, in services.NewPasswordInput) error {
	return m.Called(ctx, token, in).Error(0)
}

func (m *mockUsers) ChangePassword(ctx context.Context, id string, in services.ChangePasswordInput) error {
	return m.Called(ctx, id, in).Error(0)
}

func (m *mockUsers) UpdateProfile(ctx context.Context, callerID, targetID string, in services.UpdateUserProfileInput) (*models.UserProfile, error) {
	args := m.Called(ctx, callerID, targetID, in)
	p, _ := args.Get(0).(*models.UserProfile)
	return p, args.Error(1)
}

type mockGuards struct{ mock.Mock }

func (m *mockGuards) Login(ctx context.Context, in services.LoginInput) (*models.LoginResult, error) {
	args := m.Called(ctx, in)
	r, _ := args.Get(0).(*models.LoginResult)
	return r, args.Error(1)
}

func (m *mockGuards) ActiveSpaces(ctx context.Context) ([]models.ParkingSpace, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]models.ParkingSpace)
	return l, args.Error(1)
}

func (m *mockGuards) NotifyAvailableSpaces(ctx context.Context, in services.NotifySpacesInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *mockGuards) UpdateProfile(ctx context.Context, callerID, targetID string, in services.UpdateGuardProfileInput) (*models.GuardProfile, error) {
	args := m.Called(ctx, callerID, targetID, in)
	p, _ := args.Get(0).(*models.GuardProfile)
	return p, args.Error(1)
}

type mockAdmins struct{ mock.Mock }

func (m *mockAdmins) Login(ctx context.Context, in services.LoginInput) (*models.LoginResult, error) {
	args := m.Called(ctx, in)
	r, _ := args.Get(0).(*models.LoginResult)
	return r, args.Error(1)
}

func (m *mockAdmins) Register(ctx context.Context, in services.RegisterAdminInput) (*models.AdministratorProfile, error) {
	args := m.Called(ctx, in)
	p, _ := args.Get(0).(*models.AdministratorProfile)
	return p, args.Error(1)
}

func (m *mockAdmins) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]models.UserProfile)
	return l, args.Error(1)
}

func (m *mockAdmins) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAdmins) ListGuards(ctx context.Context) ([]models.GuardProfile, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]models.GuardProfile)
	return l, args.Error(1)
}

func (m *mockAdmins) DeactivateGuard(ctx context.Context, id string) (*models.GuardProfile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.GuardProfile)
	return p, args.Error(1)
}

func (m *mockAdmins) AvailableSpaces(ctx context.Context) ([]models.ParkingSpace, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]models.ParkingSpace)
	return l, args.Error(1)
}

func (m *mockAdmins) RegisterGuard(ctx context.Context, in services.RegisterGuardInput) (*models.GuardProfile, error) {
	args := m.Called(ctx, in)
	p, _ := args.Get(0).(*models.GuardProfile)
	return p, args.Error(1)
}

type mockSpaces struct{ mock.Mock }

func (m *mockSpaces) Create(ctx context.Context, in services.SpaceInput) (*models.ParkingSpace, error) {
	args := m.Called(ctx, in)
	s, _ := args.Get(0).(*models.ParkingSpace)
	return s, args.Error(1)
}

func (m *mockSpaces) List(ctx context.Context) ([]models.ParkingSpace, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]models.ParkingSpace)
	return l, args.Error(1)
}

func (m *mockSpaces) ListAvailable(ctx context.Context) ([]models.ParkingSpace, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]models.ParkingSpace)
	return l, args.Error(1)
}

func (m *mockSpaces) Get(ctx context.Context, id string) (*models.ParkingSpace, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.ParkingSpace)
	return s, args.Error(1)
}

func (m *mockSpaces) Update(ctx context.Context, id string, in services.SpaceInput) (*models.ParkingSpace, error) {
	args := m.Called(ctx, id, in)
	s, _ := args.Get(0).(*models.ParkingSpace)
	return s, args.Error(1)
}

func (m *mockSpaces) SetActive(ctx context.Context, id string, in services.SpaceStateInput) (*models.ParkingSpace, error) {
	args := m.Called(ctx, id, in)
	s, _ := args.Get(0).(*models.ParkingSpace)
	return s, args.Error(1)
}

// memIdentities resolves principals from fixed per-role partitions.
type memIdentities map[auth.Role]map[string]any

func (m memIdentities) Resolve(_ context.Context, role auth.Role, id string) (*auth.Principal, error) {
	part, ok := m[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownRole, role)
	}
	p, ok := part[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s no longer exists", common.ErrUnauthenticated, role, id)
	}
	return &auth.Principal{ID: id, Role: role, Profile: p}, nil
}

type testEnv struct {
	users   *mockUsers
	guards  *mockGuards
	admins  *mockAdmins
	spaces  *mockSpaces
	codec   *auth.TokenCodec
	metrics *Metrics
	gate    *Gate
	opts    Options
}

func newTestEnv() *testEnv {
	codec := auth.NewTokenCodec([]byte("router-secret"), time.Hour)
	ids := memIdentities{
		auth.RoleAdministrator: {"a1": &models.AdministratorProfile{ID: "a1", Role: "administrador"}},
		auth.RoleGuard:         {"g1": &models.GuardProfile{ID: "g1", Role: "guardia", Active: true}},
		auth.RoleUser: {"u1": &models.UserProfile{
			ID:     "u1",
			Person: models.Person{FirstName: "Ana", Email: "ana@example.com"},
			Role:   "usuario",
		}},
	}
	metrics := NewMetrics()

	e := &testEnv{
		users:   &mockUsers{},
		guards:  &mockGuards{},
		admins:  &mockAdmins{},
		spaces:  &mockSpaces{},
		codec:   codec,
		metrics: metrics,
		gate:    NewGate(codec, ids, metrics, logging.Nop()),
	}
	e.opts = Options{
		Users:          e.users,
		Guards:         e.guards,
		Admins:         e.admins,
		Spaces:         e.spaces,
		Gate:           e.gate,
		Metrics:        metrics,
		AllowedOrigins: []string{"http://localhost:5173"},
		Logger:         logging.Nop(),
	}
	return e
}

// bearer returns an Authorization header value for a fresh session.
func (e *testEnv) bearer(id string, role auth.Role) string {
	tok, err := e.codec.Issue(id, role)
	if err != nil {
		panic(err)
	}
	return common.BearerScheme + " " + tok
}
