// Package services contains the business logic of the parking service. Each
// service runs repositories vended by a RepositoryManager, either directly
// against the pool or inside dbx.WithTx.
package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/dmitrijs2005/parking/internal/logging"
	"github.com/dmitrijs2005/parking/internal/server/auth"
	"github.com/dmitrijs2005/parking/internal/server/mail"
	"github.com/dmitrijs2005/parking/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/parking/internal/server/validation"
	"github.com/samber/oops"
)

// SessionIssuer mints session tokens.
type SessionIssuer interface {
	Issue(subjectID string, role auth.Role) (string, error)
}

// TokenIssuer mints single-use tokens.
type TokenIssuer interface {
	Issue() (auth.SingleUseToken, error)
}

// Deps bundles the collaborators shared by every service.
type Deps struct {
	DB       *sql.DB
	Repos    repomanager.RepositoryManager
	Hasher   auth.PasswordHasher
	Sessions SessionIssuer
	Tokens   TokenIssuer
	Mailer   mail.Dispatcher
	Composer *mail.Composer
	Logger   logging.Logger
	Now      func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

var domainErrors = []error{
	common.ErrNotFound,
	common.ErrAlreadyExists,
	common.ErrValidation,
	common.ErrInvalidCredentials,
	common.ErrEmailNotConfirmed,
	common.ErrInactiveAccount,
	common.ErrPasswordMismatch,
	common.ErrNotOwner,
	common.ErrInvalidOrExpiredToken,
	common.ErrUnauthenticated,
	common.ErrUnknownRole,
}

// wrap leaves domain errors untouched and tags everything else with code.
func wrap(err error, code string, kv ...any) error {
	for _, d := range domainErrors {
		if errors.Is(err, d) {
			return err
		}
	}
	return oops.Code(code).With(kv...).Wrap(err)
}

// checkID rejects ids that cannot name a stored record before they reach
// the store's uuid columns.
func checkID(id string) error {
	if !validation.IsCanonicalUUID(id) {
		return common.ErrNotFound
	}
	return nil
}

// dummyDigests holds one digest per hasher, verified against when an e-mail
// is unknown so both login paths cost one hash comparison.
var dummyDigests sync.Map

func dummyDigest(h auth.PasswordHasher) string {
	if v, ok := dummyDigests.Load(h); ok {
		return v.(string)
	}
	d, err := h.Hash("parking-dummy-password")
	if err != nil {
		return ""
	}
	dummyDigests.Store(h, d)
	return d
}

// checkPassword verifies password against digest, or against a dummy digest
// when found is false, and reports whether the login may proceed.
func checkPassword(h auth.PasswordHasher, found bool, digest, password string) bool {
	if !found {
		_ = h.Verify(password, dummyDigest(h))
		return false
	}
	return h.Verify(password, digest)
}

// deliver renders and sends a message inline. Failures are logged, never
// returned.
func (d *Deps) deliver(ctx context.Context, build func() (mail.Message, error), kind string) {
	msg, err := build()
	if err == nil {
		err = d.Mailer.Send(ctx, msg)
	}
	if err != nil {
		logging.LogError(ctx, d.Logger, "mail delivery failed", oops.Code("MAIL_DELIVERY_FAILED").With("kind", kind).Wrap(err))
	}
}
