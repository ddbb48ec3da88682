package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                int
	UUID              uuid.UUID
	Email             string `validate:"required,email,max=255"`
	EncryptedPassword string `validate:"required"`
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
