package domain

import (
	"time"

	"github.com/google/uuid"
)

type Region string

const (
	RegionAsia    Region = "Asia"
	RegionAmerica Region = "America"
	RegionOceania Region = "Oceania"
	RegionAfrica  Region = "Africa"
	RegionEurope  Region = "Europe"
)

// ParseRegion maps a raw string onto the region enumeration.
func ParseRegion(s string) (Region, bool) {
	switch Region(s) {
	case RegionAsia, RegionAmerica, RegionOceania, RegionAfrica, RegionEurope:
		return Region(s), true
	}
	return "", false
}

// Image describes the stored rendition of an uploaded picture: the local
// optimized copy plus its object-storage backup.
type Image struct {
	URLOriginal string `json:"urlOriginal"`
	URL         string `json:"url"`
	MimeType    string `json:"mimetype"`
	Size        int64  `json:"size"`
}

type Sighting struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Year        int       `json:"year"`
	Region      Region    `json:"region"`
	Description string    `json:"description"`
	Image       Image     `json:"image"`
	OwnerID     uuid.UUID `json:"-"`
	Owner       *User     `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s Sighting) EntityID() uuid.UUID { return s.ID }

// SightingPatch carries the updatable fields of a sighting. The owner is
// deliberately absent: it is fixed at creation time.
type SightingPatch struct {
	Title       *string `json:"title,omitempty"`
	Year        *int    `json:"year,omitempty"`
	Region      *Region `json:"region,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *Image  `json:"image,omitempty"`
}
