package reservation

import (
	"errors"
	"time"
)

type Reservation struct {
	ID           string    `json:"id"`
	CatwayNumber int       `json:"catwayNumber"`
	ClientName   string    `json:"clientName"`
	BoatName     string    `json:"boatName"`
	CheckIn      time.Time `json:"checkIn"`
	CheckOut     time.Time `json:"checkOut"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var (
	ErrNotFound      = errors.New("reservation not found")
	ErrInvalidID     = errors.New("invalid reservation id")
	ErrUnknownCatway = errors.New("catway number does not exist")
)

type CreateReservationRequest struct {
	CatwayNumber int       `form:"catwayNumber" json:"catwayNumber" binding:"required,min=1"`
	ClientName   string    `form:"clientName" json:"clientName" binding:"required"`
	BoatName     string    `form:"boatName" json:"boatName" binding:"required"`
	CheckIn      time.Time `form:"checkIn" json:"checkIn" time_format:"2006-01-02" binding:"required"`
	CheckOut     time.Time `form:"checkOut" json:"checkOut" time_format:"2006-01-02" binding:"required"`
}

type DeleteReservationRequest struct {
	ReservationID string `form:"reservationId" json:"reservationId" binding:"required"`
}

// Details is the read model served by the reservation-details endpoint.
type Details struct {
	CatwayNumber int       `json:"catwayNumber"`
	ClientName   string    `json:"clientName"`
	BoatName     string    `json:"boatName"`
	CheckIn      time.Time `json:"checkIn"`
	CheckOut     time.Time `json:"checkOut"`
}
