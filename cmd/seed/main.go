package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sngm3741/dealer-review-services/internal/config"
	dealerapp "github.com/sngm3741/dealer-review-services/internal/dealership/application"
	mongodoc "github.com/sngm3741/dealer-review-services/internal/infrastructure/mongo"
	"github.com/sngm3741/dealer-review-services/internal/infrastructure/sqlstore"
	"github.com/sngm3741/dealer-review-services/internal/logging"
)

type seedOptions struct {
	fixturePath   string
	drop          bool
	adminUser     string
	adminPassword string
}

func main() {
	opts := parseFlags()
	cfg := config.LoadSeed()

	logger, err := logging.New(cfg.Reviews.LogLevel, "seed")
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗しました: %v", err)
	}

	err = run(opts, cfg, logger)
	if err != nil {
		logger.Error("Seed に失敗しました", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(opts seedOptions, cfg config.SeedConfig, logger *zap.Logger) error {
	data, err := loadFixture(opts.fixturePath)
	if err != nil {
		return fmt.Errorf("フィクスチャの読み込みに失敗しました: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongodoc.Connect(ctx, cfg.Reviews.MongoURI, cfg.Reviews.MongoUsername, cfg.Reviews.MongoPassword)
	if err != nil {
		return fmt.Errorf("MongoDB 接続に失敗しました: %w", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	mdb := client.Database(cfg.Reviews.MongoDatabase)
	reviews := mongodoc.NewReviewRepository(mdb, cfg.Reviews.ReviewCollection, cfg.Reviews.CounterCollection)
	sequences := mongodoc.NewSequenceRepository(mdb, cfg.Reviews.CounterCollection)

	db, err := sqlstore.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("データベースの初期化に失敗しました: %w", err)
	}
	defer func() { _ = sqlstore.Close(db) }()

	if opts.drop {
		if err := reviews.Drop(ctx); err != nil {
			// 存在しない場合もエラーになるため警告にとどめる
			logger.Warn("reviews コレクションの削除に失敗", zap.Error(err))
		}
		if err := sqlstore.ResetCatalog(db); err != nil {
			return fmt.Errorf("カタログの初期化に失敗しました: %w", err)
		}
		logger.Info("既存データを削除しました")
	}

	if err := reviews.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("インデックス作成に失敗しました: %w", err)
	}

	inserted, err := seedReviews(ctx, reviews, sequences, data.Reviews, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("レビューの投入に失敗しました (%d 件投入済み): %w", inserted, err)
	}

	catalog := dealerapp.NewCatalogService(sqlstore.NewCarRepository(db))
	summary, err := seedCatalog(ctx, catalog, data.Makes)
	if err != nil {
		return fmt.Errorf("カタログの投入に失敗しました: %w", err)
	}

	accounts := dealerapp.NewAccountService(sqlstore.NewUserRepository(db), bcrypt.DefaultCost)
	if err := ensureAdmin(ctx, accounts, opts.adminUser, opts.adminPassword, logger); err != nil {
		return fmt.Errorf("管理者ユーザーの作成に失敗しました: %w", err)
	}

	logger.Info("Seed 完了",
		zap.Int("reviews", inserted),
		zap.Int("makes", summary.Makes),
		zap.Int("models", summary.Models),
		zap.String("mongo", cfg.Reviews.MongoDatabase),
		zap.String("sqlite", cfg.DatabasePath),
	)
	return nil
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.fixturePath, "fixture", "", "YAML フィクスチャのパス (省略時は埋め込みの既定値)")
	flag.BoolVar(&opts.drop, "drop", false, "既存のレビューとカタログを削除してから投入する")
	flag.StringVar(&opts.adminUser, "admin-user", "", "作成する管理者ユーザー名")
	flag.StringVar(&opts.adminPassword, "admin-password", "", "管理者ユーザーのパスワード")
	flag.Parse()
	return opts
}
