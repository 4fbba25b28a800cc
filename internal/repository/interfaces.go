package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/svillar/quiet/internal/domain"
)

// Repository is the capability set every resource's data access implements.
// T is the entity, P its patch type. List with limit <= 0 returns the whole
// collection in creation order.
type Repository[T domain.Entity, P any] interface {
	List(ctx context.Context, page, limit int) ([]T, error)
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, id uuid.UUID, patch P) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserSearchField is the closed set of columns user search may match on.
type UserSearchField string

const (
	UserSearchUserName UserSearchField = "user_name"
	UserSearchEmail    UserSearchField = "email"
)

type UserRepository interface {
	Repository[domain.User, domain.UserPatch]
	// Search returns exact matches on the given field; an empty slice, not
	// an error, when nothing matches.
	Search(ctx context.Context, field UserSearchField, value string) ([]domain.User, error)
}

type SightingRepository interface {
	Repository[domain.Sighting, domain.SightingPatch]
	// ListPage is List with an optional region filter applied before paging.
	ListPage(ctx context.Context, page, limit int, region *domain.Region) ([]domain.Sighting, error)
	// Count follows the same filter semantics as ListPage.
	Count(ctx context.Context, region *domain.Region) (int64, error)
}
