package models

import "time"

// ParkingSpace is one slot in the lot. Number is unique within a Block.
type ParkingSpace struct {
	ID         string    `json:"_id"`
	Number     int       `json:"numero"`
	Block      string    `json:"bloque"`
	Kind       string    `json:"tipo"`
	Available  bool      `json:"disponibilidad"`
	Dimensions string    `json:"dimensiones"`
	Reserved   bool      `json:"reservado"`
	Active     bool      `json:"estado"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
