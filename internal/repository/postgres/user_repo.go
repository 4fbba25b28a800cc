package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/svillar/quiet/internal/apperr"
	"github.com/svillar/quiet/internal/domain"
	"github.com/svillar/quiet/internal/repository"
)

const userCols = "id, user_name, email, password_hash, created_at, updated_at"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) List(ctx context.Context, page, limit int) ([]domain.User, error) {
	query := "SELECT " + userCols + " FROM users ORDER BY created_at, id"
	args := []any{}
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		query += " OFFSET $1 LIMIT $2"
		args = append(args, (page-1)*limit, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users, err := scanUsers(rows)
	if err != nil {
		return nil, err
	}
	if err := r.fillSubmissions(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+userCols+" FROM users WHERE id = $1", id)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("No user found with this id")
	}
	if err != nil {
		return nil, err
	}

	users := []domain.User{*u}
	if err := r.fillSubmissions(ctx, users); err != nil {
		return nil, err
	}
	return &users[0], nil
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, user_name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.UserName, user.Email, user.PasswordHash,
		user.CreatedAt, user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return apperr.BadRequest("userName or email already in use")
	}
	return err
}

func (r *UserRepo) Update(ctx context.Context, id uuid.UUID, patch domain.UserPatch) (*domain.User, error) {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.UserName != nil {
		add("user_name", *patch.UserName)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	add("updated_at", time.Now())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), userCols)

	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Invalid id")
	}
	if isUniqueViolation(err) {
		return nil, apperr.BadRequest("userName or email already in use")
	}
	if err != nil {
		return nil, err
	}

	users := []domain.User{*u}
	if err := r.fillSubmissions(ctx, users); err != nil {
		return nil, err
	}
	return &users[0], nil
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Invalid id")
	}
	return nil
}

func (r *UserRepo) Search(ctx context.Context, field repository.UserSearchField, value string) ([]domain.User, error) {
	// field comes from a closed enumeration, never from the client.
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s = $1", userCols, string(field))

	rows, err := r.pool.Query(ctx, query, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users, err := scanUsers(rows)
	if err != nil {
		return nil, err
	}
	if err := r.fillSubmissions(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

// fillSubmissions loads every sighting owned by the given users in a single
// query. Submissions are a read-time view over sightings.owner_id, never a
// second write.
func (r *UserRepo) fillSubmissions(ctx context.Context, users []domain.User) error {
	if len(users) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	rows, err := r.pool.Query(ctx,
		"SELECT "+sightingCols+" FROM sightings WHERE owner_id = ANY($1) ORDER BY created_at, id", ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	byOwner := map[uuid.UUID][]domain.Sighting{}
	for rows.Next() {
		s, err := scanSighting(rows)
		if err != nil {
			return err
		}
		byOwner[s.OwnerID] = append(byOwner[s.OwnerID], *s)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range users {
		subs := byOwner[users[i].ID]
		if subs == nil {
			subs = []domain.Sighting{}
		}
		users[i].Submissions = subs
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.UserName, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
