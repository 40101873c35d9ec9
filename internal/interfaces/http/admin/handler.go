package admin

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	dealerapp "github.com/sngm3741/dealer-review-services/internal/dealership/application"
	"github.com/sngm3741/dealer-review-services/internal/interfaces/http/common"
)

// Handler wires admin HTTP endpoints to the car catalog.
type Handler struct {
	logger  *zap.Logger
	catalog dealerapp.CatalogService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger  *zap.Logger
	Catalog dealerapp.CatalogService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		logger:  logger,
		catalog: cfg.Catalog,
	}
}

// Register mounts admin routes onto router. Every route requires a staff session.
func (h *Handler) Register(r chi.Router) {
	r.Use(common.RequireStaff)
	r.Get("/car-makes", h.makeListHandler())
	r.Post("/car-makes", h.makeCreateHandler())
	r.Get("/car-makes/{id}", h.makeDetailHandler())
	r.Delete("/car-makes/{id}", h.makeDeleteHandler())
	r.Get("/car-models", h.modelListHandler())
	r.Post("/car-models", h.modelCreateHandler())
	r.Delete("/car-models/{id}", h.modelDeleteHandler())
}
