package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/dmitrijs2005/parking/internal/dbx"
	"github.com/dmitrijs2005/parking/internal/logging"
	"github.com/dmitrijs2005/parking/internal/server/auth"
	"github.com/dmitrijs2005/parking/internal/server/mail"
	"github.com/dmitrijs2005/parking/internal/server/models"
	"github.com/dmitrijs2005/parking/internal/server/repositories/administrators"
	"github.com/dmitrijs2005/parking/internal/server/repositories/guards"
	"github.com/dmitrijs2005/parking/internal/server/repositories/spaces"
	"github.com/dmitrijs2005/parking/internal/server/repositories/users"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- users ---

type memUsers struct {
	mu   sync.Mutex
	byID map[string]*models.User
	err  error
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, x := range m.byID {
		if x.Email == u.Email || x.VehiclePlate == u.VehiclePlate {
			return common.ErrAlreadyExists
		}
	}
	u.Active = true
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) find(pred func(*models.User) bool) *models.User {
	for _, u := range m.byID {
		if pred(u) {
			return u
		}
	}
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if u := m.find(func(u *models.User) bool { return u.Email == email }); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (m *memUsers) FindProfile(_ context.Context, id string) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.byID[id]; ok {
		p := u.Profile()
		return &p, nil
	}
	return nil, common.ErrNotFound
}

func (m *memUsers) FindProfileByEmailAndPlate(_ context.Context, email, plate string) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u := m.find(func(u *models.User) bool { return u.Email == email && u.VehiclePlate == plate }); u != nil {
		p := u.Profile()
		return &p, nil
	}
	return nil, common.ErrNotFound
}

func (m *memUsers) List(context.Context) ([]models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.UserProfile{}
	for _, u := range m.byID {
		out = append(out, u.Profile())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return common.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memUsers) SetToken(_ context.Context, id, token string, expiresAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	u.Token = &token
	u.TokenExpiresAt = expiresAt
	return nil
}

func (m *memUsers) pending(token string, now time.Time) *models.User {
	if token == "" {
		return nil
	}
	return m.find(func(u *models.User) bool {
		return u.Token != nil && *u.Token == token && (u.TokenExpiresAt == nil || u.TokenExpiresAt.After(now))
	})
}

func (m *memUsers) ConfirmEmail(_ context.Context, token string, now time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.pending(token, now)
	if u == nil {
		return "", common.ErrInvalidOrExpiredToken
	}
	u.EmailConfirmed, u.Token, u.TokenExpiresAt = true, nil, nil
	return u.ID, nil
}

func (m *memUsers) FindByPendingToken(_ context.Context, token string, now time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u := m.pending(token, now); u != nil {
		return u.ID, nil
	}
	return "", common.ErrInvalidOrExpiredToken
}

func (m *memUsers) ResetPassword(_ context.Context, token, hash string, now time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.pending(token, now)
	if u == nil {
		return "", common.ErrInvalidOrExpiredToken
	}
	u.PasswordHash, u.Token, u.TokenExpiresAt = hash, nil, nil
	return u.ID, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memUsers) UpdateProfile(_ context.Context, id string, p users.ProfileUpdate) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	u.FirstName, u.LastName, u.Phone = p.FirstName, p.LastName, p.Phone
	out := u.Profile()
	return &out, nil
}

// --- guards ---

type memGuards struct {
	byID map[string]*models.Guard
}

func (m *memGuards) Create(_ context.Context, g *models.Guard) error {
	for _, x := range m.byID {
		if x.Email == g.Email {
			return common.ErrAlreadyExists
		}
	}
	g.Active = true
	cp := *g
	m.byID[g.ID] = &cp
	return nil
}

func (m *memGuards) GetByEmail(_ context.Context, email string) (*models.Guard, error) {
	for _, g := range m.byID {
		if g.Email == email {
			cp := *g
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memGuards) FindProfile(_ context.Context, id string) (*models.GuardProfile, error) {
	if g, ok := m.byID[id]; ok {
		p := g.Profile()
		return &p, nil
	}
	return nil, common.ErrNotFound
}

func (m *memGuards) List(context.Context) ([]models.GuardProfile, error) {
	out := []models.GuardProfile{}
	for _, g := range m.byID {
		out = append(out, g.Profile())
	}
	return out, nil
}

func (m *memGuards) SetActive(_ context.Context, id string, active bool) (*models.GuardProfile, error) {
	g, ok := m.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	g.Active = active
	p := g.Profile()
	return &p, nil
}

func (m *memGuards) UpdateProfile(_ context.Context, id string, u guards.ProfileUpdate) (*models.GuardProfile, error) {
	g, ok := m.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	g.FirstName, g.LastName, g.Phone, g.Shift = u.FirstName, u.LastName, u.Phone, u.Shift
	p := g.Profile()
	return &p, nil
}

// --- administrators ---

type memAdmins struct {
	byID map[string]*models.Administrator
}

func (m *memAdmins) Create(_ context.Context, a *models.Administrator) error {
	for _, x := range m.byID {
		if x.Email == a.Email {
			return common.ErrAlreadyExists
		}
	}
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

func (m *memAdmins) GetByEmail(_ context.Context, email string) (*models.Administrator, error) {
	for _, a := range m.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memAdmins) FindProfile(_ context.Context, id string) (*models.AdministratorProfile, error) {
	if a, ok := m.byID[id]; ok {
		p := a.Profile()
		return &p, nil
	}
	return nil, common.ErrNotFound
}

func (m *memAdmins) Count(context.Context) (int, error) { return len(m.byID), nil }

// --- spaces ---

type memSpaces struct {
	byID map[string]*models.ParkingSpace
	err  error
}

func (m *memSpaces) Create(_ context.Context, s *models.ParkingSpace) error {
	for _, x := range m.byID {
		if x.Number == s.Number && x.Block == s.Block {
			return common.ErrAlreadyExists
		}
	}
	s.Active = true
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *memSpaces) GetByID(_ context.Context, id string) (*models.ParkingSpace, error) {
	if s, ok := m.byID[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (m *memSpaces) List(_ context.Context, f spaces.Filter) ([]models.ParkingSpace, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []models.ParkingSpace{}
	for _, s := range m.byID {
		if !s.Active || (f.AvailableOnly && !s.Available) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *memSpaces) Update(_ context.Context, id string, u spaces.Update) (*models.ParkingSpace, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	s.Number, s.Block, s.Kind, s.Dimensions = u.Number, u.Block, u.Kind, u.Dimensions
	if u.Available != nil {
		s.Available = *u.Available
	}
	if u.Reserved != nil {
		s.Reserved = *u.Reserved
	}
	cp := *s
	return &cp, nil
}

func (m *memSpaces) SetActive(_ context.Context, id string, active bool) (*models.ParkingSpace, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	s.Active = active
	cp := *s
	return &cp, nil
}

// --- manager, mailer, fixture ---

type fakeRepoManager struct {
	admins *memAdmins
	guards *memGuards
	users  *memUsers
	spaces *memSpaces
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Administrators(dbx.DBTX) administrators.Repository { return m.admins }
func (m *fakeRepoManager) Guards(dbx.DBTX) guards.Repository { return m.guards }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository { return m.users }
func (m *fakeRepoManager) Spaces(dbx.DBTX) spaces.Repository { return m.spaces }

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, msg mail.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type fixture struct {
	deps   Deps
	repos  *fakeRepoManager
	mailer *mockMailer
	sqlm   sqlmock.Sqlmock
	codec  *auth.TokenCodec
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, sqlm, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		repos: &fakeRepoManager{
			admins: &memAdmins{byID: map[string]*models.Administrator{}},
			guards: &memGuards{byID: map[string]*models.Guard{}},
			users:  &memUsers{byID: map[string]*models.User{}},
			spaces: &memSpaces{byID: map[string]*models.ParkingSpace{}},
		},
		mailer: &mockMailer{},
		sqlm:   sqlm,
		codec:  auth.NewTokenCodec([]byte("test-secret"), time.Hour),
		now:    time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	f.deps = Deps{
		DB:       db,
		Repos:    f.repos,
		Hasher:   auth.NewBcryptHasher(4),
		Sessions: f.codec,
		Tokens:   auth.NewSingleUseTokens(24 * time.Hour),
		Mailer:   f.mailer,
		Composer: mail.NewComposer("http://parking.test"),
		Logger:   logging.Nop(),
		Now:      func() time.Time { return f.now },
	}
	return f
}

// lastSent returns the most recent message handed to the mailer.
func (f *fixture) lastSent(t *testing.T) mail.Message {
	t.Helper()
	calls := f.mailer.Calls
	require.NotEmpty(t, calls, "no mail sent")
	return calls[len(calls)-1].Arguments.Get(1).(mail.Message)
}
