package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/svillar/quiet/internal/apperr"
	"github.com/svillar/quiet/internal/domain"
	"github.com/svillar/quiet/internal/repository"
	"github.com/svillar/quiet/internal/service"
	"github.com/svillar/quiet/internal/transport/http/respond"
)

type contextKey string

const payloadKey contextKey = "tokenPayload"

// Logged verifies the bearer token and attaches the decoded payload to the
// request context.
func Logged(jwtSecret string) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respond.Error(w, apperr.Unauthorized("Not Authorization header"))
				return
			}
			if !strings.HasPrefix(header, "Bearer") {
				respond.Error(w, apperr.Unauthorized("Not Bearer in Authorization header"))
				return
			}

			tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))

			payload, err := service.ParseToken(tokenStr, secret)
			if err != nil {
				respond.Error(w, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := WithPayload(r.Context(), payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorized requires a previously attached payload and lets the request
// through only when the caller owns the targeted sighting. Both failure
// modes share the token status code but keep distinct messages.
func Authorized(sightings repository.SightingRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload, ok := PayloadFromContext(r.Context())
			if !ok {
				respond.Error(w, apperr.TokenNotFound("Token not found in Authorized interceptor"))
				return
			}

			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				respond.Error(w, apperr.NotFound("Invalid id"))
				return
			}

			sighting, err := sightings.GetByID(r.Context(), id)
			if err != nil {
				respond.Error(w, err)
				return
			}

			if sighting.OwnerID != payload.ID {
				respond.Error(w, apperr.TokenNotFound("Invalid Token"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func WithPayload(ctx context.Context, payload *domain.TokenPayload) context.Context {
	return context.WithValue(ctx, payloadKey, payload)
}

func PayloadFromContext(ctx context.Context) (*domain.TokenPayload, bool) {
	payload, ok := ctx.Value(payloadKey).(*domain.TokenPayload)
	return payload, ok
}
