package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/svillar/quiet/internal/apperr"
	"github.com/svillar/quiet/internal/domain"
	"github.com/svillar/quiet/internal/repository"
)

// PageSize is the fixed page length of the sighting listing.
const PageSize = 4

type SightingService struct {
	sightings repository.SightingRepository
	sanitizer *bluemonday.Policy
}

func NewSightingService(sightings repository.SightingRepository) *SightingService {
	return &SightingService{
		sightings: sightings,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

type CreateSightingInput struct {
	Title       string
	Year        int
	Region      string
	Description string
}

// Page is one window of the sighting collection plus the total match count.
type Page struct {
	Items      []domain.Sighting
	Count      int64
	TotalPages int
}

// ListPage returns the page'th window of size PageSize, optionally narrowed
// to one region. The count is fetched once and reused for TotalPages.
func (s *SightingService) ListPage(ctx context.Context, page int, region *domain.Region) (*Page, error) {
	if page < 1 {
		page = 1
	}

	items, err := s.sightings.ListPage(ctx, page, PageSize, region)
	if err != nil {
		return nil, err
	}
	count, err := s.sightings.Count(ctx, region)
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []domain.Sighting{}
	}

	return &Page{
		Items:      items,
		Count:      count,
		TotalPages: int((count + PageSize - 1) / PageSize),
	}, nil
}

// Create stores a sighting owned by the authenticated caller. Any
// client-supplied owner is never consulted; ownerID wins.
func (s *SightingService) Create(ctx context.Context, ownerID uuid.UUID, input CreateSightingInput, image domain.Image) (*domain.Sighting, error) {
	region, ok := domain.ParseRegion(input.Region)
	if !ok {
		return nil, apperr.BadRequest(fmt.Sprintf("Invalid region: %s", input.Region))
	}

	now := time.Now()
	sighting := &domain.Sighting{
		ID:          uuid.New(),
		Title:       input.Title,
		Year:        input.Year,
		Region:      region,
		Description: s.sanitizer.Sanitize(input.Description),
		Image:       image,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.sightings.Create(ctx, sighting); err != nil {
		return nil, err
	}

	// Re-read so the response carries the populated owner.
	return s.sightings.GetByID(ctx, sighting.ID)
}
