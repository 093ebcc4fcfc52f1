package services

import (
	"fmt"

	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/dmitrijs2005/parking/internal/server/auth"
	v "github.com/dmitrijs2005/parking/internal/server/validation"
)

// MinPasswordLength applies to every password chosen by a caller.
const MinPasswordLength = 6

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	return v.Required(v.F("email", in.Email), v.F("password", in.Password))
}

type RegisterUserInput struct {
	FirstName    string `json:"nombre"`
	LastName     string `json:"apellido"`
	NationalID   string `json:"cedula"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"telefono"`
	VehiclePlate string `json:"placa_vehiculo"`
}

func (in RegisterUserInput) Validate() error {
	return v.All(
		v.Required(
			v.F("nombre", in.FirstName),
			v.F("apellido", in.LastName),
			v.F("cedula", in.NationalID),
			v.F("email", in.Email),
			v.F("password", in.Password),
			v.F("placa_vehiculo", in.VehiclePlate),
		),
		v.Email("email", in.Email),
		v.MinLength("password", in.Password, MinPasswordLength),
		v.MaxBytes("password", in.Password, auth.MaxPasswordBytes),
	)
}

type PasswordResetRequestInput struct {
	Email string `json:"email"`
}

func (in PasswordResetRequestInput) Validate() error {
	return v.Required(v.F("email", in.Email))
}

type NewPasswordInput struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmarPassword"`
}

func (in NewPasswordInput) Validate() error {
	if err := v.Required(v.F("password", in.Password), v.F("confirmarPassword", in.ConfirmPassword)); err != nil {
		return err
	}
	if in.Password != in.ConfirmPassword {
		return common.ErrPasswordMismatch
	}
	return v.All(
		v.MinLength("password", in.Password, MinPasswordLength),
		v.MaxBytes("password", in.Password, auth.MaxPasswordBytes),
	)
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"actualPassword"`
	NewPassword     string `json:"nuevoPassword"`
}

func (in ChangePasswordInput) Validate() error {
	return v.All(
		v.Required(v.F("actualPassword", in.CurrentPassword), v.F("nuevoPassword", in.NewPassword)),
		v.MinLength("nuevoPassword", in.NewPassword, MinPasswordLength),
		v.MaxBytes("nuevoPassword", in.NewPassword, auth.MaxPasswordBytes),
	)
}

type UpdateUserProfileInput struct {
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Phone     string `json:"telefono"`
}

func (in UpdateUserProfileInput) Validate() error {
	return v.Required(v.F("nombre", in.FirstName), v.F("apellido", in.LastName), v.F("telefono", in.Phone))
}

type UpdateGuardProfileInput struct {
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Phone     string `json:"telefono"`
	Shift     string `json:"turno"`
}

func (in UpdateGuardProfileInput) Validate() error {
	return v.Required(v.F("nombre", in.FirstName), v.F("apellido", in.LastName), v.F("telefono", in.Phone), v.F("turno", in.Shift))
}

type NotifySpacesInput struct {
	Email        string `json:"email"`
	VehiclePlate string `json:"placa_vehiculo"`
}

func (in NotifySpacesInput) Validate() error {
	return v.Required(v.F("email", in.Email), v.F("placa_vehiculo", in.VehiclePlate))
}

type RegisterAdminInput struct {
	FirstName  string `json:"nombre"`
	LastName   string `json:"apellido"`
	NationalID string `json:"cedula"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"telefono"`
}

func (in RegisterAdminInput) Validate() error {
	return v.All(
		v.Required(
			v.F("nombre", in.FirstName),
			v.F("apellido", in.LastName),
			v.F("cedula", in.NationalID),
			v.F("email", in.Email),
			v.F("password", in.Password),
		),
		v.Email("email", in.Email),
		v.MinLength("password", in.Password, MinPasswordLength),
		v.MaxBytes("password", in.Password, auth.MaxPasswordBytes),
	)
}

type RegisterGuardInput struct {
	FirstName      string  `json:"nombre"`
	LastName       string  `json:"apellido"`
	NationalID     string  `json:"cedula"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	Phone          string  `json:"telefono"`
	Shift          string  `json:"turno"`
	ParkingSpaceID *string `json:"id_parqueadero"`
}

func (in RegisterGuardInput) Validate() error {
	var space error
	if in.ParkingSpaceID != nil {
		space = v.UUID("id_parqueadero", *in.ParkingSpaceID)
	}
	return v.All(
		v.Required(
			v.F("nombre", in.FirstName),
			v.F("apellido", in.LastName),
			v.F("cedula", in.NationalID),
			v.F("email", in.Email),
			v.F("password", in.Password),
		),
		v.Email("email", in.Email),
		v.MinLength("password", in.Password, MinPasswordLength),
		v.MaxBytes("password", in.Password, auth.MaxPasswordBytes),
		space,
	)
}

type SpaceInput struct {
	Number     int    `json:"numero"`
	Block      string `json:"bloque"`
	Kind       string `json:"tipo"`
	Dimensions string `json:"dimensiones"`
	Available  *bool  `json:"disponibilidad"`
	Reserved   *bool  `json:"reservado"`
}

func (in SpaceInput) Validate() error {
	return v.All(
		v.Required(v.F("bloque", in.Block), v.F("tipo", in.Kind), v.F("dimensiones", in.Dimensions)),
		v.Positive("numero", in.Number),
	)
}

type SpaceStateInput struct {
	Active *bool `json:"estado"`
}

func (in SpaceStateInput) Validate() error {
	if in.Active == nil {
		return fmt.Errorf("%w: all fields are required, missing estado", common.ErrValidation)
	}
	return nil
}
