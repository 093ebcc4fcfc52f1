package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/dmitrijs2005/parking/internal/logging"
	"github.com/dmitrijs2005/parking/internal/server/auth"
)

const (
	msgTokenRequired = "a token must be provided first."
	msgTokenInvalid  = "invalid token format."
	msgAdminOnly     = "this is an administrator-only route."
)

var bearerTokenRE = regexp.MustCompile(`^Bearer ([^\s]+)$`)

// SessionVerifier checks a session token and returns its claims.
type SessionVerifier interface {
	Verify(token string) (*auth.Session, error)
}

// IdentityResolver loads the identity a verified session points at.
type IdentityResolver interface {
	Resolve(ctx context.Context, role auth.Role, id string) (*auth.Principal, error)
}

// Gate authenticates bearer credentials and enforces role restrictions.
type Gate struct {
	sessions   SessionVerifier
	identities IdentityResolver
	metrics    *Metrics
	logger     logging.Logger
}

func NewGate(s SessionVerifier, i IdentityResolver, m *Metrics, l logging.Logger) *Gate {
	return &Gate{sessions: s, identities: i, metrics: m, logger: l.With("module", "gate")}
}

// Authenticate rejects requests without a valid session and attaches the
// resolved principal to the request context otherwise.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get(common.AuthorizationHeaderName)
		if header == "" {
			g.metrics.gateRejected("missing")
			writeMsg(w, http.StatusUnauthorized, msgTokenRequired)
			return
		}

		p, err := g.principal(ctx, header)
		if err != nil {
			if isCredentialError(err) {
				g.metrics.gateRejected("invalid")
				g.logger.Debug(ctx, "credential rejected", "reason", err.Error())
				writeMsg(w, http.StatusUnauthorized, msgTokenInvalid)
				return
			}
			writeError(w, r, g.logger, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(ctx, p)))
	})
}

func (g *Gate) principal(ctx context.Context, header string) (*auth.Principal, error) {
	m := bearerTokenRE.FindStringSubmatch(header)
	if m == nil {
		return nil, fmt.Errorf("%w: not a bearer credential", common.ErrTokenMalformed)
	}

	sess, err := g.sessions.Verify(m[1])
	if err != nil {
		return nil, err
	}
	role, err := auth.ParseRole(sess.Role)
	if err != nil {
		return nil, err
	}
	return g.identities.Resolve(ctx, role, sess.SubjectID)
}

func isCredentialError(err error) bool {
	for _, e := range []error{
		common.ErrTokenMalformed,
		common.ErrTokenExpired,
		common.ErrInvalidSignature,
		common.ErrUnknownRole,
		common.ErrUnauthenticated,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// Require lets the request through only when the authenticated principal
// has role. It must run after Authenticate.
func (g *Gate) Require(role auth.Role) func(http.Handler) http.Handler {
	msg := fmt.Sprintf("this route is restricted to the %s role.", role)
	if role == auth.RoleAdministrator {
		msg = msgAdminOnly
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				g.metrics.gateRejected("missing")
				writeMsg(w, http.StatusUnauthorized, msgTokenRequired)
				return
			}
			if p.Role != role {
				g.metrics.gateRejected("forbidden")
				writeMsg(w, http.StatusForbidden, msg)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Protect wraps h with Authenticate and Require(role).
func (g *Gate) Protect(role auth.Role, h http.HandlerFunc) http.Handler {
	return g.Authenticate(g.Require(role)(h))
}

// AdminOnly is Protect for the administrator role.
func (g *Gate) AdminOnly(h http.Handler) http.Handler {
	return g.Authenticate(g.Require(auth.RoleAdministrator)(h))
}
