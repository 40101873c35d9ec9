package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dealerapp "github.com/sngm3741/dealer-review-services/internal/dealership/application"
	"github.com/sngm3741/dealer-review-services/internal/dealership/domain"
	mongodoc "github.com/sngm3741/dealer-review-services/internal/infrastructure/mongo"
	reviewdomain "github.com/sngm3741/dealer-review-services/internal/review/domain"
)

type reviewStore interface {
	Create(ctx context.Context, review *reviewdomain.Review) error
}

type sequenceResetter interface {
	Reset(ctx context.Context, name string, floor int) error
}

type catalogSummary struct {
	Makes  int
	Models int
}

// seedCatalog はメーカーと車種を登録する。
func seedCatalog(ctx context.Context, catalog dealerapp.CatalogService, makes []makeFixture) (catalogSummary, error) {
	var summary catalogSummary
	for _, mf := range makes {
		carMake, err := catalog.CreateMake(ctx, dealerapp.CreateMakeCommand{Name: mf.Name, Description: mf.Description})
		if err != nil {
			return summary, fmt.Errorf("メーカー %q の登録に失敗しました: %w", mf.Name, err)
		}
		summary.Makes++

		makeID := carMake.ID
		for _, model := range mf.Models {
			_, err := catalog.CreateModel(ctx, dealerapp.CreateModelCommand{
				DealerID: model.DealerID,
				Name:     model.Name,
				Type:     model.Type,
				Year:     model.Year,
				MakeID:   &makeID,
			})
			if err != nil {
				return summary, fmt.Errorf("車種 %q の登録に失敗しました: %w", model.Name, err)
			}
			summary.Models++
		}
	}
	return summary, nil
}

// seedReviews はレビューを投入し、採番シーケンスを最大 id に合わせる。
func seedReviews(ctx context.Context, store reviewStore, sequences sequenceResetter, reviews []reviewFixture, now time.Time) (int, error) {
	maxID := 0
	for _, rf := range reviews {
		if rf.ID > maxID {
			maxID = rf.ID
		}
	}
	if err := sequences.Reset(ctx, mongodoc.ReviewSequence, maxID); err != nil {
		return 0, fmt.Errorf("シーケンスの初期化に失敗しました: %w", err)
	}

	for i, rf := range reviews {
		review := &reviewdomain.Review{
			ID:           rf.ID,
			Name:         rf.Name,
			Dealership:   rf.Dealership,
			Review:       rf.Review,
			Purchase:     rf.Purchase,
			PurchaseDate: rf.PurchaseDate,
			CarMake:      rf.CarMake,
			CarModel:     rf.CarModel,
			CarYear:      rf.CarYear,
			Username:     rf.Username,
			CreatedAt:    now,
		}
		if err := store.Create(ctx, review); err != nil {
			return i, fmt.Errorf("レビュー %d の挿入に失敗しました: %w", rf.ID, err)
		}
	}
	return len(reviews), nil
}

// ensureAdmin は管理者ユーザーを作成する。既に存在する場合は何もしない。
func ensureAdmin(ctx context.Context, accounts dealerapp.AccountService, username, password string, logger *zap.Logger) error {
	if username == "" {
		return nil
	}
	if password == "" {
		return errors.New("-admin-password を指定してください")
	}
	_, err := accounts.Register(ctx, dealerapp.RegisterCommand{Username: username, Password: password, Staff: true})
	if errors.Is(err, domain.ErrUserExists) {
		logger.Info("管理者ユーザーは既に存在します", zap.String("username", username))
		return nil
	}
	if err != nil {
		return fmt.Errorf("管理者ユーザーの作成に失敗しました: %w", err)
	}
	logger.Info("管理者ユーザーを作成しました", zap.String("username", username))
	return nil
}
