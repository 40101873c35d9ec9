package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/sngm3741/dealer-review-services/internal/config"
	"github.com/sngm3741/dealer-review-services/internal/infrastructure/sqlstore"
	"github.com/sngm3741/dealer-review-services/internal/logging"
	"github.com/sngm3741/dealer-review-services/internal/server"
)

func main() {
	cfg, err := config.LoadWeb()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, "web")
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗しました: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.DealersURL == "" {
		logger.Warn("DEALERS_URL が未設定のためディーラー一覧は取得できません")
	}

	db, err := sqlstore.Open(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("データベースの初期化に失敗しました", zap.Error(err))
	}

	app := server.NewWebServer(cfg, db, logger)
	if err := app.Run(); err != nil {
		logger.Fatal("サーバー起動に失敗", zap.Error(err))
	}
}
