package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/svillar/quiet/internal/apperr"
	"github.com/svillar/quiet/internal/domain"
	"github.com/svillar/quiet/internal/repository"
	"github.com/svillar/quiet/internal/service"
	"github.com/svillar/quiet/internal/transport/http/middleware"
	"github.com/svillar/quiet/internal/transport/http/respond"
	"github.com/svillar/quiet/pkg/validator"
)

type SightingHandler struct {
	*Resource[domain.Sighting, domain.SightingPatch]
	svc *service.SightingService
}

func NewSightingHandler(sightings repository.SightingRepository, svc *service.SightingService) *SightingHandler {
	return &SightingHandler{
		Resource: NewResource[domain.Sighting, domain.SightingPatch](sightings),
		svc:      svc,
	}
}

// GetAll lists one fixed-size page and synthesizes absolute next/previous
// links, preserving an active region filter.
func (h *SightingHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r.URL.Query().Get("page"))

	var region *domain.Region
	if raw := r.URL.Query().Get("region"); raw != "" {
		// An unknown region is a filter that matches nothing, not an error.
		reg := domain.Region(raw)
		region = &reg
	}

	pageData, err := h.svc.ListPage(r.Context(), page, region)
	if err != nil {
		respond.Error(w, err)
		return
	}

	base := baseURL(r)
	var next, previous *string
	if page < pageData.TotalPages {
		next = pageLink(base, region, page+1)
	}
	if page > 1 {
		previous = pageLink(base, region, page-1)
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"items":    pageData.Items,
		"count":    pageData.Count,
		"previous": previous,
		"next":     next,
	})
}

// CreateFromForm handles the authenticated multipart creation flow. The
// owner is always the token payload; any owner field in the form is ignored.
func (h *SightingHandler) CreateFromForm(w http.ResponseWriter, r *http.Request) {
	payload, ok := middleware.PayloadFromContext(r.Context())
	if !ok {
		respond.Error(w, apperr.TokenNotFound("Token not found in Authorized interceptor"))
		return
	}

	image, ok := middleware.ImageFromContext(r.Context())
	if !ok {
		respond.Error(w, apperr.NotAcceptable("Not valid image file"))
		return
	}

	if errs := validator.ValidateSightingForm(r.FormValue("title"), r.FormValue("year"), r.FormValue("region")); errs.HasErrors() {
		respond.Error(w, apperr.BadRequest(errs.Message()))
		return
	}
	year, _ := strconv.Atoi(r.FormValue("year"))

	sighting, err := h.svc.Create(r.Context(), payload.ID, service.CreateSightingInput{
		Title:       r.FormValue("title"),
		Year:        year,
		Region:      r.FormValue("region"),
		Description: r.FormValue("description"),
	}, *image)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, sighting)
}

// parsePage defaults missing or non-numeric input to the first page.
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func baseURL(r *http.Request) string {
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "http"
		if r.TLS != nil {
			scheme = "https"
		}
	}
	return fmt.Sprintf("%s://%s%s", scheme, r.Host, r.URL.Path)
}

func pageLink(base string, region *domain.Region, page int) *string {
	var link string
	if region != nil {
		link = fmt.Sprintf("%s?region=%s&page=%d", base, url.QueryEscape(string(*region)), page)
	} else {
		link = fmt.Sprintf("%s?page=%d", base, page)
	}
	return &link
}
