package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID `json:"id"`
	GoogleID    string    `json:"googleId"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	Photo       *string   `json:"photo"`
	CreatedAt   time.Time `json:"createdAt"`
}
