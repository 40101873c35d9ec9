package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/sngm3741/dealer-review-services/internal/config"
	mongodoc "github.com/sngm3741/dealer-review-services/internal/infrastructure/mongo"
	"github.com/sngm3741/dealer-review-services/internal/interfaces/http/common"
	"github.com/sngm3741/dealer-review-services/internal/interfaces/http/reviewapi"
	reviewapp "github.com/sngm3741/dealer-review-services/internal/review/application"
)

// ReviewServer はレビューマイクロサービスのコンポジションルート。
// MongoDB のリポジトリとイベント配信をアプリケーションサービスへ注入し、/api にマウントする。
type ReviewServer struct {
	logger         *zap.Logger
	client         *mongo.Client
	addr           string
	allowedOrigins []string
	queries        reviewapp.ReviewQueryService
	commands       reviewapp.ReviewCommandService
}

// NewReviewServer wires repositories and services. publisher may be nil to disable events.
func NewReviewServer(cfg config.ReviewServiceConfig, client *mongo.Client, publisher reviewapp.EventPublisher, logger *zap.Logger) *ReviewServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	db := client.Database(cfg.MongoDatabase)
	repo := mongodoc.NewReviewRepository(db, cfg.ReviewCollection, cfg.CounterCollection)
	failures := mongodoc.NewFailedNotificationRepository(db, cfg.FailedNotificationCollection)

	return &ReviewServer{
		logger:         logger,
		client:         client,
		addr:           cfg.Addr,
		allowedOrigins: cfg.AllowedOrigins,
		queries:        reviewapp.NewReviewQueryService(repo),
		commands:       reviewapp.NewReviewCommandService(repo, publisher, failures, logger),
	}
}

// Router builds the chi router with middleware, CORS, /healthz and /api.
func (s *ReviewServer) Router() (http.Handler, error) {
	handler, err := reviewapi.NewHandler(reviewapi.Config{
		Logger:   s.logger,
		Queries:  s.queries,
		Commands: s.commands,
	})
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", s.healthHandler())
	router.Route("/api", handler.Register)
	return router, nil
}

// Run starts serving and blocks until shutdown, then disconnects from MongoDB.
func (s *ReviewServer) Run() error {
	router, err := s.Router()
	if err != nil {
		return err
	}
	return serve(newHTTPServer(s.addr, router), s.logger, s.shutdown)
}

// healthHandler は MongoDB への疎通のみを確認する。
func (s *ReviewServer) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			s.logger.Warn("MongoDB へのヘルスチェックに失敗", zap.Error(err))
			common.WriteJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		common.WriteJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *ReviewServer) shutdown(ctx context.Context) {
	if err := s.client.Disconnect(ctx); err != nil {
		s.logger.Warn("MongoDB 切断時にエラー", zap.Error(err))
	}
}
