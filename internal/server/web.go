package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sngm3741/dealer-review-services/internal/config"
	dealerapp "github.com/sngm3741/dealer-review-services/internal/dealership/application"
	"github.com/sngm3741/dealer-review-services/internal/infrastructure/restapi"
	"github.com/sngm3741/dealer-review-services/internal/infrastructure/sqlstore"
	"github.com/sngm3741/dealer-review-services/internal/interfaces/http/admin"
	"github.com/sngm3741/dealer-review-services/internal/interfaces/http/common"
	"github.com/sngm3741/dealer-review-services/internal/interfaces/http/web"
)

// WebServer はフロントエンドのコンポジションルート。
// 外部サービスのクライアントと SQLite のリポジトリをサービスへ注入し、/djangoapp と /admin にマウントする。
type WebServer struct {
	logger   *zap.Logger
	db       *gorm.DB
	addr     string
	sessions *common.SessionManager
	dealers  dealerapp.DealerQueryService
	reviews  dealerapp.ReviewSubmissionService
	accounts dealerapp.AccountService
	catalog  dealerapp.CatalogService
}

// NewWebServer wires the collaborator clients and the relational store.
func NewWebServer(cfg config.WebConfig, db *gorm.DB, logger *zap.Logger) *WebServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := restapi.NewClient(cfg.UpstreamTimeout, logger)
	reviewClient := restapi.NewReviewClient(client, cfg.ReviewsURL)
	cars := sqlstore.NewCarRepository(db)

	var sentiment dealerapp.SentimentAnalyzer
	if analyzer := restapi.NewSentimentAnalyzer(cfg.SentimentURL, cfg.SentimentAPIKey, cfg.UpstreamTimeout, logger); analyzer.IsEnabled() {
		sentiment = analyzer
	} else {
		logger.Info("感情分析は無効です (SENTIMENT_URL 未設定)")
	}

	return &WebServer{
		logger:   logger,
		db:       db,
		addr:     cfg.Addr,
		sessions: common.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL, cfg.SessionCookieSecure),
		dealers:  dealerapp.NewDealerQueryService(restapi.NewDealerClient(client, cfg.DealersURL), reviewClient, sentiment, logger),
		reviews:  dealerapp.NewReviewSubmissionService(reviewClient, cars),
		accounts: dealerapp.NewAccountService(sqlstore.NewUserRepository(db), bcrypt.DefaultCost),
		catalog:  dealerapp.NewCatalogService(cars),
	}
}

// Router builds the chi router: pages under web.BasePath, the catalog API under /admin.
func (s *WebServer) Router() (http.Handler, error) {
	pages, err := web.NewHandler(web.Config{
		Logger:   s.logger,
		Dealers:  s.dealers,
		Reviews:  s.reviews,
		Accounts: s.accounts,
		Catalog:  s.catalog,
		Sessions: s.sessions,
	})
	if err != nil {
		return nil, err
	}
	adminHandler := admin.NewHandler(admin.Config{Logger: s.logger, Catalog: s.catalog})

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(s.sessions.Middleware)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, web.BasePath+"/", http.StatusFound)
	})
	router.Get("/healthz", s.healthHandler())
	router.Route(web.BasePath, pages.Register)
	router.Route("/admin", adminHandler.Register)
	return router, nil
}

// Run starts serving and blocks until shutdown, then closes the database.
func (s *WebServer) Run() error {
	router, err := s.Router()
	if err != nil {
		return err
	}
	return serve(newHTTPServer(s.addr, router), s.logger, s.shutdown)
}

func (s *WebServer) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := sqlstore.Ping(ctx, s.db); err != nil {
			s.logger.Warn("データベースへのヘルスチェックに失敗", zap.Error(err))
			common.WriteJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		common.WriteJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *WebServer) shutdown(context.Context) {
	if err := sqlstore.Close(s.db); err != nil {
		s.logger.Warn("データベース切断時にエラー", zap.Error(err))
	}
}
