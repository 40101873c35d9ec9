package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/sngm3741/dealer-review-services/internal/config"
	"github.com/sngm3741/dealer-review-services/internal/infrastructure/messaging"
	mongodoc "github.com/sngm3741/dealer-review-services/internal/infrastructure/mongo"
	"github.com/sngm3741/dealer-review-services/internal/logging"
	reviewapp "github.com/sngm3741/dealer-review-services/internal/review/application"
	"github.com/sngm3741/dealer-review-services/internal/server"
)

func main() {
	cfg := config.LoadReviewService()

	logger, err := logging.New(cfg.LogLevel, "reviews")
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗しました: %v", err)
	}

	err = run(cfg, logger)
	if err != nil {
		logger.Error("レビューサービスが異常終了しました", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run は main から切り出した起動処理。defer による後始末を終えてから戻る。
func run(cfg config.ReviewServiceConfig, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	client, err := mongodoc.Connect(ctx, cfg.MongoURI, cfg.MongoUsername, cfg.MongoPassword)
	if err != nil {
		return fmt.Errorf("MongoDB 接続に失敗しました: %w", err)
	}

	publisher, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return err
	}
	defer closePublisher()

	app := server.NewReviewServer(cfg, client, publisher, logger)
	if err := app.Run(); err != nil {
		return fmt.Errorf("サーバー起動に失敗: %w", err)
	}
	return nil
}

// newPublisher は AMQP_URL が設定されていれば RabbitMQ へ接続する。
// 未設定時は nil インターフェースと何もしない close を返す。
func newPublisher(cfg config.ReviewServiceConfig, logger *zap.Logger) (reviewapp.EventPublisher, func(), error) {
	if cfg.AMQPURL == "" {
		return nil, func() {}, nil
	}

	p, err := messaging.Dial(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, func() {}, fmt.Errorf("RabbitMQ 接続に失敗しました: %w", err)
	}
	logger.Info("レビュー投稿イベントを配信します", zap.String("exchange", cfg.AMQPExchange))

	closeFn := func() {
		if err := p.Close(); err != nil {
			logger.Warn("RabbitMQ 切断時にエラー", zap.Error(err))
		}
	}
	return p, closeFn, nil
}
