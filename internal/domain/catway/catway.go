package catway

import (
	"errors"
	"time"
)

// Catway is a berth/mooring slip, identified by a sequential number.
type Catway struct {
	ID           string    `json:"id"`
	CatwayNumber int       `json:"catwayNumber"`
	Type         string    `json:"type"`
	CatwayState  string    `json:"catwayState"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var (
	ErrNotFound  = errors.New("catway not found")
	ErrInvalidID = errors.New("invalid catway id")
)

type CreateCatwayRequest struct {
	Type        string `form:"type" json:"type" binding:"required"`
	CatwayState string `form:"catwayState" json:"catwayState" binding:"required"`
}

type UpdateCatwayStateRequest struct {
	CatwayID    string `form:"catwayId" json:"catwayId" binding:"required"`
	CatwayState string `form:"catwayState" json:"catwayState" binding:"required"`
}

type DeleteCatwayRequest struct {
	CatwayNumber int `form:"catwayNumber" json:"catwayNumber" binding:"required,min=1"`
}

// Details is the read model served by the catway-details endpoint.
type Details struct {
	Type        string `json:"type"`
	CatwayState string `json:"catwayState"`
}
