package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `json:"id"`
	UserName     string     `json:"userName"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Submissions  []Sighting `json:"submissions,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u User) EntityID() uuid.UUID { return u.ID }

// UserPatch carries the updatable fields of a user. Nil means "leave as is".
type UserPatch struct {
	UserName *string `json:"userName,omitempty"`
	Email    *string `json:"email,omitempty"`
}
