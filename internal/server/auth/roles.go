// Package auth holds the authentication primitives of the parking service:
// role tags, password hashing, single-use tokens, session tokens and the
// principal bound to an authorized request.
package auth

import (
	"fmt"

	"github.com/dmitrijs2005/parking/internal/common"
)

// Role is the fixed tag carried by each identity kind.
type Role string

const (
	RoleAdministrator Role = "administrador"
	RoleGuard         Role = "guardia"
	RoleUser          Role = "usuario"
)

// ParseRole accepts exactly the three known tags.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdministrator, RoleGuard, RoleUser:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", common.ErrUnknownRole, s)
	}
}

func (r Role) String() string { return string(r) }
