package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/muhammadegaa/easyhome/internal/adapter/httpapi/middleware"
	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"github.com/muhammadegaa/easyhome/internal/platform/metrics"
	"github.com/muhammadegaa/easyhome/internal/usecase"
)

// Handler bundles the usecases behind the HTTP surface.
type Handler struct {
	auth       *usecase.AuthUsecase
	properties *usecase.PropertyUsecase
	images     *usecase.ImageUsecase
	favorites  *usecase.FavoriteUsecase
	metrics    *metrics.Manager
	logger     *logger.Logger
}

func NewHandler(
	auth *usecase.AuthUsecase,
	properties *usecase.PropertyUsecase,
	images *usecase.ImageUsecase,
	favorites *usecase.FavoriteUsecase,
	m *metrics.Manager,
	log *logger.Logger,
) *Handler {
	return &Handler{
		auth:       auth,
		properties: properties,
		images:     images,
		favorites:  favorites,
		metrics:    m,
		logger:     log.Named("HTTPHandler"),
	}
}

// Router assembles the chi route tree.
func (h *Handler) Router(jwtSecret string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(h.logger, h.metrics))
	r.Use(chimiddleware.Recoverer)

	authenticated := middleware.Authenticator(jwtSecret, h.logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.handleRegister)
			r.Post("/login", h.handleLogin)
			r.Get("/verify-email", h.handleVerifyEmail)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Post("/resend-verification", h.handleResendVerification)
				r.Get("/profile", h.handleGetProfile)
				r.Put("/profile", h.handleUpdateProfile)
			})
		})

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", h.handleSearchProperties)
			r.Get("/{id}", h.handleGetProperty)
			r.Get("/{id}/images", h.handleListImages)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Post("/", h.handleCreateProperty)
				r.Get("/my", h.handleListMyProperties)
				r.Put("/{id}", h.handleUpdateProperty)
				r.Delete("/{id}", h.handleDeleteProperty)
				r.Post("/{id}/images", h.handleUploadImages)
				r.Put("/{id}/images/reorder", h.handleReorderImages)
				r.Post("/{id}/favorite", h.handleToggleFavorite)
			})
		})

		r.Route("/images", func(r chi.Router) {
			r.Use(authenticated)
			r.Put("/{id}", h.handleUpdateImage)
			r.Delete("/{id}", h.handleDeleteImage)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/favorites", h.handleListFavorites)
		})
	})

	return r
}
