package public

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	reservationapp "github.com/sngm3741/line-forms-services/api/internal/reservation/application"
	storeapp "github.com/sngm3741/line-forms-services/api/internal/store/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger   *log.Logger
	sessions *reservationapp.SessionService
	profiles storeapp.ProfileService
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger   *log.Logger
	Sessions *reservationapp.SessionService
	Profiles storeapp.ProfileService
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:   cfg.Logger,
		sessions: cfg.Sessions,
		profiles: cfg.Profiles,
	}
}

// Register mounts all public routes onto the router. authMiddleware is
// optional authentication: it attaches the LIFF user when a valid token
// is presented and passes through otherwise.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/stores/{storeID}/config", h.storeConfigHandler())
	r.Post("/sessions", h.sessionCreateHandler())
	r.Get("/sessions/{id}", h.sessionDetailHandler())
	r.Get("/sessions/{id}/calendar", h.sessionCalendarHandler())
	r.Post("/sessions/{id}/events", h.sessionEventHandler())
	r.Post("/sessions/{id}/date", h.sessionDateHandler())
	r.With(authMiddleware).Post("/sessions/{id}/submit", h.sessionSubmitHandler())
}
