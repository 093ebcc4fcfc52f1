package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/dmitrijs2005/parking/internal/server/auth"
)

// IdentityService resolves a verified session subject to its stored
// identity.
type IdentityService struct {
	deps Deps
}

func NewIdentityService(d Deps) *IdentityService {
	return &IdentityService{deps: d}
}

// Resolve looks id up in the one partition selected by role. An unknown role
// yields common.ErrUnknownRole; a missing record yields
// common.ErrUnauthenticated.
func (s *IdentityService) Resolve(ctx context.Context, role auth.Role, id string) (*auth.Principal, error) {
	var (
		profile any
		err     error
	)

	switch role {
	case auth.RoleAdministrator:
		profile, err = s.deps.Repos.Administrators(s.deps.DB).FindProfile(ctx, id)
	case auth.RoleGuard:
		profile, err = s.deps.Repos.Guards(s.deps.DB).FindProfile(ctx, id)
	case auth.RoleUser:
		profile, err = s.deps.Repos.Users(s.deps.DB).FindProfile(ctx, id)
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownRole, role)
	}

	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s %s no longer exists", common.ErrUnauthenticated, role, id)
		}
		return nil, wrap(err, "IDENTITY_RESOLVE_FAILED", "role", role)
	}

	return &auth.Principal{ID: id, Role: role, Profile: profile}, nil
}
