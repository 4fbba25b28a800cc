package domain

import "github.com/google/uuid"

// Entity is the constraint shared by all persisted resources.
type Entity interface {
	EntityID() uuid.UUID
}

// TokenPayload is the decoded identity carried by a verified bearer token.
// It lives on the request context for the duration of one request and is
// never persisted.
type TokenPayload struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"userName"`
}
