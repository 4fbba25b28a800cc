package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/svillar/quiet/internal/metrics"
	"github.com/svillar/quiet/internal/repository"
	"github.com/svillar/quiet/internal/service"
	"github.com/svillar/quiet/internal/storage"
	"github.com/svillar/quiet/internal/transport/http/middleware"
	"github.com/svillar/quiet/internal/transport/http/respond"
)

// RouterDeps bundles everything NewRouter wires together.
type RouterDeps struct {
	Logger            *slog.Logger
	Metrics           *metrics.Collector
	Gatherer          prometheus.Gatherer
	CORSAllowedOrigin string
	JWTSecret         string
	UploadDir         string

	Users     repository.UserRepository
	Sightings repository.SightingRepository

	Auth            *service.AuthService
	SightingService *service.SightingService
	Images          *service.ImageService
	Backup          *storage.BackupClient
}

func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(middleware.NewLogging(deps.Logger))
	}
	if deps.Metrics != nil {
		r.Use(middleware.NewMetrics(deps.Metrics))
	}

	userHandler := NewUserHandler(deps.Users, deps.Auth)
	sightingHandler := NewSightingHandler(deps.Sightings, deps.SightingService)

	logged := middleware.Logged(deps.JWTSecret)
	authorized := middleware.Authorized(deps.Sightings)
	files := middleware.NewFiles(deps.Images, deps.Backup)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Route("/user", func(r chi.Router) {
		r.Get("/", userHandler.GetAll)
		r.Post("/register", userHandler.Register)
		r.Patch("/login", userHandler.Login)
		r.Get("/{id}", userHandler.GetByID)
	})

	r.Route("/sighting", func(r chi.Router) {
		r.Get("/", sightingHandler.GetAll)
		r.With(logged, files.SingleFile("image"), files.Optimize, files.Backup).
			Post("/form", sightingHandler.CreateFromForm)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", sightingHandler.GetByID)
			r.With(logged, authorized).Patch("/", sightingHandler.Patch)
			r.With(logged, authorized).Delete("/", sightingHandler.Delete)
		})
	})

	// Optimized originals stored on disk.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.UploadDir))))

	return r
}
