package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/svillar/quiet/internal/apperr"
	"github.com/svillar/quiet/internal/domain"
	"github.com/svillar/quiet/internal/repository"
)

// fakeUserRepo is an in-memory repository.UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users []domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{}
}

func (f *fakeUserRepo) List(_ context.Context, page, limit int) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.User, len(f.users))
	copy(out, f.users)
	if limit <= 0 {
		return out, nil
	}
	start := (page - 1) * limit
	if start >= len(out) {
		return []domain.User{}, nil
	}
	end := start + limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, apperr.NotFound("No user found with this id")
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.UserName == user.UserName || u.Email == user.Email {
			return apperr.BadRequest("userName or email already in use")
		}
	}
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, id uuid.UUID, patch domain.UserPatch) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.users {
		if f.users[i].ID == id {
			if patch.UserName != nil {
				f.users[i].UserName = *patch.UserName
			}
			if patch.Email != nil {
				f.users[i].Email = *patch.Email
			}
			user := f.users[i]
			return &user, nil
		}
	}
	return nil, apperr.NotFound("Invalid id")
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Invalid id")
}

func (f *fakeUserRepo) Search(_ context.Context, field repository.UserSearchField, value string) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matches := []domain.User{}
	for _, u := range f.users {
		switch field {
		case repository.UserSearchUserName:
			if u.UserName == value {
				matches = append(matches, u)
			}
		case repository.UserSearchEmail:
			if u.Email == value {
				matches = append(matches, u)
			}
		}
	}
	return matches, nil
}

// fakeSightingRepo is an in-memory repository.SightingRepository.
type fakeSightingRepo struct {
	mu        sync.Mutex
	sightings []domain.Sighting
}

func newFakeSightingRepo() *fakeSightingRepo {
	return &fakeSightingRepo{}
}

func (f *fakeSightingRepo) List(ctx context.Context, page, limit int) ([]domain.Sighting, error) {
	return f.ListPage(ctx, page, limit, nil)
}

func (f *fakeSightingRepo) ListPage(_ context.Context, page, limit int, region *domain.Region) ([]domain.Sighting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	filtered := []domain.Sighting{}
	for _, s := range f.sightings {
		if region == nil || s.Region == *region {
			filtered = append(filtered, s)
		}
	}
	if limit <= 0 {
		return filtered, nil
	}
	start := (page - 1) * limit
	if start >= len(filtered) {
		return []domain.Sighting{}, nil
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], nil
}

func (f *fakeSightingRepo) Count(_ context.Context, region *domain.Region) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, s := range f.sightings {
		if region == nil || s.Region == *region {
			count++
		}
	}
	return count, nil
}

func (f *fakeSightingRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Sighting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.sightings {
		if s.ID == id {
			sighting := s
			return &sighting, nil
		}
	}
	return nil, apperr.NotFound("No sighting found with this id")
}

func (f *fakeSightingRepo) Create(_ context.Context, sighting *domain.Sighting) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sightings = append(f.sightings, *sighting)
	return nil
}

func (f *fakeSightingRepo) Update(_ context.Context, id uuid.UUID, patch domain.SightingPatch) (*domain.Sighting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.sightings {
		if f.sightings[i].ID == id {
			if patch.Title != nil {
				f.sightings[i].Title = *patch.Title
			}
			if patch.Year != nil {
				f.sightings[i].Year = *patch.Year
			}
			if patch.Region != nil {
				f.sightings[i].Region = *patch.Region
			}
			if patch.Description != nil {
				f.sightings[i].Description = *patch.Description
			}
			sighting := f.sightings[i]
			return &sighting, nil
		}
	}
	return nil, apperr.NotFound("Invalid id")
}

func (f *fakeSightingRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.sightings {
		if f.sightings[i].ID == id {
			f.sightings = append(f.sightings[:i], f.sightings[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Invalid id")
}
