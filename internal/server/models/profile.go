package models

import (
	"time"

	"github.com/dmitrijs2005/parking/internal/server/auth"
)

type AdministratorProfile struct {
	ID string `json:"_id"`
	Person
	Role string `json:"rol"`
}

type GuardProfile struct {
	ID string `json:"_id"`
	Person
	Shift          string  `json:"turno"`
	Active         bool    `json:"estado"`
	ParkingSpaceID *string `json:"id_parqueadero,omitempty"`
	Role           string  `json:"rol"`
}

type UserProfile struct {
	ID string `json:"_id"`
	Person
	Active         bool      `json:"estado"`
	EmailConfirmed bool      `json:"confirmEmail"`
	VehiclePlate   string    `json:"placa_vehiculo"`
	ParkingSpaceID *string   `json:"id_parqueadero,omitempty"`
	Role           string    `json:"rol"`
	CreatedAt      time.Time `json:"createdAt"`
}

// LoginResult is returned by every login endpoint.
type LoginResult struct {
	ID        string `json:"_id"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Phone     string `json:"telefono"`
	Email     string `json:"email"`
	Token     string `json:"token"`
}

func (a *Administrator) Profile() AdministratorProfile {
	return AdministratorProfile{ID: a.ID, Person: a.Person, Role: auth.RoleAdministrator.String()}
}

func (g *Guard) Profile() GuardProfile {
	return GuardProfile{
		ID:             g.ID,
		Person:         g.Person,
		Shift:          g.Shift,
		Active:         g.Active,
		ParkingSpaceID: g.ParkingSpaceID,
		Role:           auth.RoleGuard.String(),
	}
}

func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:             u.ID,
		Person:         u.Person,
		Active:         u.Active,
		EmailConfirmed: u.EmailConfirmed,
		VehiclePlate:   u.VehiclePlate,
		ParkingSpaceID: u.ParkingSpaceID,
		Role:           auth.RoleUser.String(),
		CreatedAt:      u.CreatedAt,
	}
}

// NewLoginResult builds the login response for any identity kind.
func NewLoginResult(id string, p Person, token string) LoginResult {
	return LoginResult{
		ID:        id,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Email:     p.Email,
		Token:     token,
	}
}
