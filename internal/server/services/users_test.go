package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/dmitrijs2005/parking/internal/server/auth"
	"github.com/dmitrijs2005/parking/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validRegistration() RegisterUserInput {
	return RegisterUserInput{
		FirstName:    "Ana",
		LastName:     "Ruiz",
		NationalID:   "1712345678",
		Email:        "ana@example.com",
		Password:     "secreto1",
		Phone:        "0991234567",
		VehiclePlate: "PBX-1234",
	}
}

func (f *fixture) pendingToken(t *testing.T, email string) string {
	t.Helper()
	u, err := f.repos.users.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NotNil(t, u.Token, "no pending token for %s", email)
	return *u.Token
}

func TestUserService_RegisterConfirmLogin(t *testing.T) {
	f := newFixture(t)
	f.mailer.On("Send", mock.Anything, mock.Anything).Return(nil)
	svc := NewUserService(f.deps)
	ctx := context.Background()

	p, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.False(t, p.EmailConfirmed)
	assert.Equal(t, "usuario", p.Role)

	token := f.pendingToken(t, "ana@example.com")
	assert.Len(t, token, auth.SingleUseTokenLength)

	msg := f.lastSent(t)
	assert.Equal(t, "ana@example.com", msg.To)
	assert.Contains(t, msg.HTMLBody, "/api/usuarios/confirmar-email/"+token)

	_, err = svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "secreto1"})
	assert.ErrorIs(t, err, common.ErrEmailNotConfirmed)

	require.NoError(t, svc.ConfirmEmail(ctx, token))

	stored, err := f.repos.users.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, stored.EmailConfirmed)
	assert.Nil(t, stored.Token)

	// a consumed token cannot be replayed
	assert.ErrorIs(t, svc.ConfirmEmail(ctx, token), common.ErrInvalidOrExpiredToken)

	res, err := svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "secreto1"})
	require.NoError(t, err)
	assert.Equal(t, p.ID, res.ID)
	assert.Equal(t, "Ana", res.FirstName)

	sess, err := f.codec.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, p.ID, sess.SubjectID)
	assert.Equal(t, "usuario", sess.Role)

	principal, err := NewIdentityService(f.deps).Resolve(ctx, auth.RoleUser, sess.SubjectID)
	require.NoError(t, err)
	profile, ok := principal.Profile.(*models.UserProfile)
	require.True(t, ok)
	assert.True(t, profile.EmailConfirmed)
}

func TestUserService_Register(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		f := newFixture(t)
		in := validRegistration()
		in.LastName, in.VehiclePlate = "", ""

		_, err := NewUserService(f.deps).Register(context.Background(), in)
		require.ErrorIs(t, err, common.ErrValidation)
		assert.Contains(t, err.Error(), "apellido")
		assert.Contains(t, err.Error(), "placa_vehiculo")
		assert.Empty(t, f.repos.users.byID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newFixture(t)
		f.mailer.On("Send", mock.Anything, mock.Anything).Return(nil)
		svc := NewUserService(f.deps)

		_, err := svc.Register(context.Background(), validRegistration())
		require.NoError(t, err)

		in := validRegistration()
		in.VehiclePlate = "PBX-9999"
		_, err = svc.Register(context.Background(), in)
		assert.ErrorIs(t, err, common.ErrAlreadyExists)
	})

	t.Run("mail failure keeps the record", func(t *testing.T) {
		f := newFixture(t)
		f.mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		p, err := NewUserService(f.deps).Register(context.Background(), validRegistration())
		require.NoError(t, err)
		assert.Contains(t, f.repos.users.byID, p.ID)
		f.mailer.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		f := newFixture(t)
		f.repos.users.err = errors.New("connection reset")

		_, err := NewUserService(f.deps).Register(context.Background(), validRegistration())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
		f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

func TestUserService_PasswordOverBcryptLimit(t *testing.T) {
	long := strings.Repeat("a", auth.MaxPasswordBytes+1)
	ctx := context.Background()

	t.Run("register", func(t *testing.T) {
		f := newFixture(t)
		in := validRegistration()
		in.Password = long

		_, err := NewUserService(f.deps).Register(ctx, in)
		require.ErrorIs(t, err, common.ErrValidation)
		assert.Empty(t, f.repos.users.byID)
	})

	t.Run("reset keeps the token pending", func(t *testing.T) {
		f := newFixture(t)
		p := registeredUser(t, f, true)
		svc := NewUserService(f.deps)
		require.NoError(t, svc.RequestPasswordReset(ctx, PasswordResetRequestInput{Email: p.Email}))
		token := f.pendingToken(t, p.Email)

		err := svc.ResetPassword(ctx, token, NewPasswordInput{Password: long, ConfirmPassword: long})
		require.ErrorIs(t, err, common.ErrValidation)
		assert.NoError(t, svc.CheckResetToken(ctx, token))
	})

	t.Run("change", func(t *testing.T) {
		f := newFixture(t)
		err := NewUserService(f.deps).ChangePassword(ctx, "id", ChangePasswordInput{
			CurrentPassword: "secreto1",
			NewPassword:     long,
		})
		assert.ErrorIs(t, err, common.ErrValidation)
		require.NoError(t, f.sqlm.ExpectationsWereMet())
	})
}

func registeredUser(t *testing.T, f *fixture, confirmed bool) *models.UserProfile {
	t.Helper()
	f.mailer.On("Send", mock.Anything, mock.Anything).Return(nil)
	svc := NewUserService(f.deps)

	p, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	if confirmed {
		require.NoError(t, svc.ConfirmEmail(context.Background(), f.pendingToken(t, p.Email)))
	}
	return p
}

func TestUserService_Login(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *fixture)
		in      LoginInput
		wantErr error
	}{
		{
			name:    "missing password",
			in:      LoginInput{Email: "ana@example.com"},
			wantErr: common.ErrValidation,
		},
		{
			name:    "unknown email",
			in:      LoginInput{Email: "nobody@example.com", Password: "secreto1"},
			wantErr: common.ErrInvalidCredentials,
		},
		{
			name:    "wrong password",
			in:      LoginInput{Email: "ana@example.com", Password: "otro-pass"},
			wantErr: common.ErrInvalidCredentials,
		},
		{
			name: "inactive account",
			prepare: func(f *fixture) {
				for _, u := range f.repos.users.byID {
					u.Active = false
				}
			},
			in:      LoginInput{Email: "ana@example.com", Password: "secreto1"},
			wantErr: common.ErrInactiveAccount,
		},
		{
			name: "unconfirmed wins over wrong password",
			prepare: func(f *fixture) {
				for _, u := range f.repos.users.byID {
					u.EmailConfirmed = false
				}
			},
			in:      LoginInput{Email: "ana@example.com", Password: "otro-pass"},
			wantErr: common.ErrEmailNotConfirmed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			registeredUser(t, f, true)
			if tt.prepare != nil {
				tt.prepare(f)
			}

			res, err := NewUserService(f.deps).Login(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res)
		})
	}
}

func TestUserService_PasswordReset(t *testing.T) {
	f := newFixture(t)
	registeredUser(t, f, true)
	svc := NewUserService(f.deps)
	ctx := context.Background()

	require.NoError(t, svc.RequestPasswordReset(ctx, PasswordResetRequestInput{Email: "ana@example.com"}))
	token := f.pendingToken(t, "ana@example.com")
	assert.Contains(t, f.lastSent(t).HTMLBody, "/api/usuarios/recuperar-password/"+token)

	require.NoError(t, svc.CheckResetToken(ctx, token))
	// checking does not consume
	require.NoError(t, svc.CheckResetToken(ctx, token))

	err := svc.ResetPassword(ctx, token, NewPasswordInput{Password: "nuevo123", ConfirmPassword: "nuevo124"})
	assert.ErrorIs(t, err, common.ErrPasswordMismatch)

	require.NoError(t, svc.ResetPassword(ctx, token, NewPasswordInput{Password: "nuevo123", ConfirmPassword: "nuevo123"}))
	assert.ErrorIs(t, svc.CheckResetToken(ctx, token), common.ErrInvalidOrExpiredToken)
	assert.ErrorIs(t,
		svc.ResetPassword(ctx, token, NewPasswordInput{Password: "tercero1", ConfirmPassword: "tercero1"}),
		common.ErrInvalidOrExpiredToken)

	_, err = svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "secreto1"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "nuevo123"})
	assert.NoError(t, err)
}

func TestUserService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	f := newFixture(t)
	err := NewUserService(f.deps).RequestPasswordReset(context.Background(), PasswordResetRequestInput{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, common.ErrNotFound)
	f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestUserService_ExpiredToken(t *testing.T) {
	f := newFixture(t)
	p := registeredUser(t, f, false)
	token := f.pendingToken(t, p.Email)

	f.now = time.Now().Add(25 * time.Hour)
	svc := NewUserService(f.deps)

	assert.ErrorIs(t, svc.ConfirmEmail(context.Background(), token), common.ErrInvalidOrExpiredToken)
	assert.ErrorIs(t, svc.ConfirmEmail(context.Background(), ""), common.ErrInvalidOrExpiredToken)
}

func TestUserService_ChangePassword(t *testing.T) {
	t.Run("success commits", func(t *testing.T) {
		f := newFixture(t)
		p := registeredUser(t, f, true)
		f.sqlm.ExpectBegin()
		f.sqlm.ExpectCommit()

		err := NewUserService(f.deps).ChangePassword(context.Background(), p.ID, ChangePasswordInput{
			CurrentPassword: "secreto1",
			NewPassword:     "cambiado1",
		})
		require.NoError(t, err)
		require.NoError(t, f.sqlm.ExpectationsWereMet())

		_, err = NewUserService(f.deps).Login(context.Background(), LoginInput{Email: p.Email, Password: "cambiado1"})
		assert.NoError(t, err)
	})

	t.Run("wrong current password rolls back", func(t *testing.T) {
		f := newFixture(t)
		p := registeredUser(t, f, true)
		f.sqlm.ExpectBegin()
		f.sqlm.ExpectRollback()

		err := NewUserService(f.deps).ChangePassword(context.Background(), p.ID, ChangePasswordInput{
			CurrentPassword: "incorrecto",
			NewPassword:     "cambiado1",
		})
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
		require.NoError(t, f.sqlm.ExpectationsWereMet())
	})

	t.Run("short new password never opens a transaction", func(t *testing.T) {
		f := newFixture(t)
		err := NewUserService(f.deps).ChangePassword(context.Background(), "id", ChangePasswordInput{
			CurrentPassword: "secreto1",
			NewPassword:     "abc",
		})
		assert.ErrorIs(t, err, common.ErrValidation)
		require.NoError(t, f.sqlm.ExpectationsWereMet())
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	p := registeredUser(t, f, true)
	svc := NewUserService(f.deps)
	in := UpdateUserProfileInput{FirstName: "Ana María", LastName: "Ruiz", Phone: "0987654321"}

	_, err := svc.UpdateProfile(context.Background(), "someone-else", p.ID, in)
	assert.ErrorIs(t, err, common.ErrNotOwner)

	out, err := svc.UpdateProfile(context.Background(), p.ID, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Ana María", out.FirstName)
	assert.Equal(t, "0987654321", out.Phone)
	assert.Equal(t, "PBX-1234", out.VehiclePlate)
}
