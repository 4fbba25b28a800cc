package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/svillar/quiet/internal/apperr"
	"github.com/svillar/quiet/internal/domain"
	"github.com/svillar/quiet/internal/repository"
)

const tokenValidity = 24 * time.Hour

// errInvalidCredentials is shared by every login failure path so the
// response never reveals whether the user exists or the password was wrong.
func errInvalidCredentials() *apperr.Error {
	return apperr.BadRequest("Invalid user or password")
}

// Claims is the signed token content: registered claims plus the caller's
// id and display name.
type Claims struct {
	jwt.RegisteredClaims
	ID       string `json:"id"`
	UserName string `json:"userName"`
}

type AuthService struct {
	users     repository.UserRepository
	jwtSecret []byte
}

func NewAuthService(users repository.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
	}
}

type RegisterInput struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// Register hashes the password and stores the new user. The plaintext is
// never persisted and the hash never serializes outward.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		UserName:     input.UserName,
		Email:        input.Email,
		PasswordHash: hash,
		Submissions:  []domain.Sighting{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login resolves the identifier first as a userName, then as an email, and
// verifies the password against the stored hash.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, *domain.User, error) {
	if input.User == "" || input.Password == "" {
		return "", nil, errInvalidCredentials()
	}

	matches, err := s.users.Search(ctx, repository.UserSearchUserName, input.User)
	if err != nil {
		return "", nil, err
	}
	if len(matches) == 0 {
		matches, err = s.users.Search(ctx, repository.UserSearchEmail, input.User)
		if err != nil {
			return "", nil, err
		}
	}
	if len(matches) == 0 {
		return "", nil, errInvalidCredentials()
	}

	user := matches[0]
	if !verifyPassword(input.Password, user.PasswordHash) {
		return "", nil, errInvalidCredentials()
	}

	token, err := s.Token(&user)
	if err != nil {
		return "", nil, fmt.Errorf("generating token: %w", err)
	}

	return token, &user, nil
}

// Token issues a signed HS256 JWT carrying the user's id and userName.
func (s *AuthService) Token(u *domain.User) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenValidity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		ID:       u.ID.String(),
		UserName: u.UserName,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ParseToken verifies signature and expiry and returns the decoded payload.
func ParseToken(tokenString string, secret []byte) (*domain.TokenPayload, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, apperr.Unauthorized("Invalid Token")
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid Token")
	}

	return &domain.TokenPayload{ID: id, UserName: claims.UserName}, nil
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)

	return fmt.Sprintf("%s:%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func verifyPassword(password, encoded string) bool {
	saltB64, hashB64, ok := strings.Cut(encoded, ":")
	if !ok {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(hashB64)
	if err != nil {
		return false
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return subtle.ConstantTimeCompare(hash, expectedHash) == 1
}
