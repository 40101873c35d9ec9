package application

import (
	"context"
	"time"

	"github.com/sngm3741/dealer-review-services/internal/review/domain"
	"go.uber.org/zap"
)

// ReviewRepository はレビュー文書の永続化を抽象化するポート。
type ReviewRepository interface {
	FindByDealership(ctx context.Context, dealership int) ([]domain.Review, error)
	Create(ctx context.Context, review *domain.Review) error
}

// EventPublisher はレビュー投稿イベントを外部ブローカーへ流すポート。
type EventPublisher interface {
	PublishReviewPosted(ctx context.Context, review domain.Review) error
}

// FailureRecorder は配信に失敗した通知を後で再送できるよう記録するポート。
type FailureRecorder interface {
	RecordFailure(ctx context.Context, target string, payload map[string]any, cause error, attempts int) error
}

// ReviewQueryService describes read use-cases.
type ReviewQueryService interface {
	ListByDealership(ctx context.Context, dealership int) ([]domain.Review, error)
}

// ReviewCommandService handles writing use-cases.
type ReviewCommandService interface {
	Submit(ctx context.Context, cmd SubmitReviewCommand) (*domain.Review, error)
}

// SubmitReviewCommand captures a posted review. ID is optional; zero means "assign one".
type SubmitReviewCommand struct {
	ID           int
	Name         string
	Dealership   int
	Review       string
	Purchase     bool
	PurchaseDate string
	CarMake      string
	CarModel     string
	CarYear      int
	Username     string
	Extra        map[string]any
}

type reviewQueryService struct {
	repo ReviewRepository
}

// NewReviewQueryService creates a new ReviewQueryService.
func NewReviewQueryService(repo ReviewRepository) ReviewQueryService {
	return &reviewQueryService{repo: repo}
}

func (s *reviewQueryService) ListByDealership(ctx context.Context, dealership int) ([]domain.Review, error) {
	reviews, err := s.repo.FindByDealership(ctx, dealership)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

type reviewCommandService struct {
	repo      ReviewRepository
	publisher EventPublisher
	failures  FailureRecorder
	logger    *zap.Logger
}

// NewReviewCommandService は保存と投稿イベント配信をまとめたコマンドサービスを返す。
// publisher / failures は nil でもよく、その場合イベント配信を行わない。
func NewReviewCommandService(repo ReviewRepository, publisher EventPublisher, failures FailureRecorder, logger *zap.Logger) ReviewCommandService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &reviewCommandService{
		repo:      repo,
		publisher: publisher,
		failures:  failures,
		logger:    logger,
	}
}

func (s *reviewCommandService) Submit(ctx context.Context, cmd SubmitReviewCommand) (*domain.Review, error) {
	review := &domain.Review{
		ID:           cmd.ID,
		Name:         cmd.Name,
		Dealership:   cmd.Dealership,
		Review:       cmd.Review,
		Purchase:     cmd.Purchase,
		PurchaseDate: cmd.PurchaseDate,
		CarMake:      cmd.CarMake,
		CarModel:     cmd.CarModel,
		CarYear:      cmd.CarYear,
		Username:     cmd.Username,
		CreatedAt:    time.Now().UTC(),
		Extra:        cmd.Extra,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.notifyReviewPosted(ctx, *review)
	return review, nil
}

// notifyReviewPosted は投稿イベントを配信し、失敗時は failed_notifications へ記録する。
// 投稿自体は既に保存済みのため、ここでのエラーは呼び出し元へ返さない。
func (s *reviewCommandService) notifyReviewPosted(ctx context.Context, review domain.Review) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.PublishReviewPosted(ctx, review)
	if err == nil {
		return
	}
	s.logger.Warn("レビュー投稿イベントの配信に失敗", zap.Int("reviewId", review.ID), zap.Error(err))

	if s.failures == nil {
		return
	}
	payload := map[string]any{
		"reviewId":   review.ID,
		"dealership": review.Dealership,
		"username":   review.Username,
	}
	if recErr := s.failures.RecordFailure(ctx, "review_posted_event", payload, err, 1); recErr != nil {
		s.logger.Error("failed_notifications への保存に失敗", zap.Error(recErr))
	}
}
