package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/svillar/quiet/internal/apperr"
	"github.com/svillar/quiet/internal/domain"
)

const sightingCols = `id, title, year, region, description,
	image_url_original, image_url, image_mime_type, image_size,
	owner_id, created_at, updated_at`

// ownerJoinCols is sightingCols plus the owner row, mirroring the owner
// populate of the sighting read paths.
const ownerJoinCols = `s.id, s.title, s.year, s.region, s.description,
	s.image_url_original, s.image_url, s.image_mime_type, s.image_size,
	s.owner_id, s.created_at, s.updated_at,
	u.user_name, u.email, u.created_at, u.updated_at`

type SightingRepo struct {
	pool *pgxpool.Pool
}

func NewSightingRepo(pool *pgxpool.Pool) *SightingRepo {
	return &SightingRepo{pool: pool}
}

func (r *SightingRepo) List(ctx context.Context, page, limit int) ([]domain.Sighting, error) {
	return r.ListPage(ctx, page, limit, nil)
}

func (r *SightingRepo) ListPage(ctx context.Context, page, limit int, region *domain.Region) ([]domain.Sighting, error) {
	query := "SELECT " + ownerJoinCols + " FROM sightings s JOIN users u ON u.id = s.owner_id"
	args := []any{}

	if region != nil {
		args = append(args, *region)
		query += fmt.Sprintf(" WHERE s.region = $%d", len(args))
	}
	query += " ORDER BY s.created_at, s.id"
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		args = append(args, (page-1)*limit, limit)
		query += fmt.Sprintf(" OFFSET $%d LIMIT $%d", len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sightings := []domain.Sighting{}
	for rows.Next() {
		s, err := scanSightingWithOwner(rows)
		if err != nil {
			return nil, err
		}
		sightings = append(sightings, *s)
	}
	return sightings, rows.Err()
}

func (r *SightingRepo) Count(ctx context.Context, region *domain.Region) (int64, error) {
	query := "SELECT count(*) FROM sightings"
	args := []any{}
	if region != nil {
		query += " WHERE region = $1"
		args = append(args, *region)
	}

	var count int64
	err := r.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *SightingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sighting, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+ownerJoinCols+" FROM sightings s JOIN users u ON u.id = s.owner_id WHERE s.id = $1", id)

	s, err := scanSightingWithOwner(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("No sighting found with this id")
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SightingRepo) Create(ctx context.Context, s *domain.Sighting) error {
	query := `
		INSERT INTO sightings (id, title, year, region, description,
			image_url_original, image_url, image_mime_type, image_size,
			owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		s.ID, s.Title, s.Year, s.Region, s.Description,
		s.Image.URLOriginal, s.Image.URL, s.Image.MimeType, s.Image.Size,
		s.OwnerID, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

func (r *SightingRepo) Update(ctx context.Context, id uuid.UUID, patch domain.SightingPatch) (*domain.Sighting, error) {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Year != nil {
		add("year", *patch.Year)
	}
	if patch.Region != nil {
		if _, ok := domain.ParseRegion(string(*patch.Region)); !ok {
			return nil, apperr.BadRequest(fmt.Sprintf("Invalid region: %s", *patch.Region))
		}
		add("region", *patch.Region)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Image != nil {
		add("image_url_original", patch.Image.URLOriginal)
		add("image_url", patch.Image.URL)
		add("image_mime_type", patch.Image.MimeType)
		add("image_size", patch.Image.Size)
	}
	add("updated_at", time.Now())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE sightings SET %s WHERE id = $%d RETURNING id",
		strings.Join(sets, ", "), len(args))

	var updatedID uuid.UUID
	err := r.pool.QueryRow(ctx, query, args...).Scan(&updatedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Invalid id")
	}
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, updatedID)
}

func (r *SightingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM sightings WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Invalid id")
	}
	return nil
}

func scanSighting(row pgx.Row) (*domain.Sighting, error) {
	var s domain.Sighting
	err := row.Scan(
		&s.ID, &s.Title, &s.Year, &s.Region, &s.Description,
		&s.Image.URLOriginal, &s.Image.URL, &s.Image.MimeType, &s.Image.Size,
		&s.OwnerID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSightingWithOwner(row pgx.Row) (*domain.Sighting, error) {
	var s domain.Sighting
	var owner domain.User
	err := row.Scan(
		&s.ID, &s.Title, &s.Year, &s.Region, &s.Description,
		&s.Image.URLOriginal, &s.Image.URL, &s.Image.MimeType, &s.Image.Size,
		&s.OwnerID, &s.CreatedAt, &s.UpdatedAt,
		&owner.UserName, &owner.Email, &owner.CreatedAt, &owner.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	owner.ID = s.OwnerID
	s.Owner = &owner
	return &s, nil
}
