package reviewapi

import (
	_ "embed"
	"fmt"

	"github.com/go-chi/chi/v5"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	reviewapp "github.com/sngm3741/dealer-review-services/internal/review/application"
)

//go:embed review_schema.json
var reviewSchemaJSON []byte

// Handler wires the review microservice endpoints to application services.
type Handler struct {
	logger   *zap.Logger
	queries  reviewapp.ReviewQueryService
	commands reviewapp.ReviewCommandService
	schema   *gojsonschema.Schema
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger   *zap.Logger
	Queries  reviewapp.ReviewQueryService
	Commands reviewapp.ReviewCommandService
}

// NewHandler はスキーマをコンパイルしてハンドラを構築する。
func NewHandler(cfg Config) (*Handler, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(reviewSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("review schema の読み込みに失敗: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		logger:   logger,
		queries:  cfg.Queries,
		commands: cfg.Commands,
		schema:   schema,
	}, nil
}

// Register mounts the review routes (expected under /api).
func (h *Handler) Register(r chi.Router) {
	r.Get("/get_reviews", h.getReviewsHandler())
	r.Post("/post_review", h.postReviewHandler())
}
