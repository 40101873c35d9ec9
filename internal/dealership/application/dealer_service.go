package application

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sngm3741/dealer-review-services/internal/dealership/domain"
)

// DealerQueryService serves the dealer listing and detail pages.
type DealerQueryService interface {
	Dealers(ctx context.Context, state string) ([]domain.CarDealer, error)
	Dealer(ctx context.Context, id int) (domain.CarDealer, error)
	DealerDetail(ctx context.Context, id int) (DealerDetail, error)
}

// DealerDetail bundles a dealer with its analysed reviews.
type DealerDetail struct {
	Dealer  domain.CarDealer
	Reviews []domain.DealerReview
}

type dealerQueryService struct {
	dealers   DealerDirectory
	reviews   ReviewGateway
	sentiment SentimentAnalyzer
	logger    *zap.Logger
}

// NewDealerQueryService は在庫サービス・レビューサービス・感情分析を束ねたクエリサービスを返す。
func NewDealerQueryService(dealers DealerDirectory, reviews ReviewGateway, sentiment SentimentAnalyzer, logger *zap.Logger) DealerQueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &dealerQueryService{dealers: dealers, reviews: reviews, sentiment: sentiment, logger: logger}
}

func (s *dealerQueryService) Dealers(ctx context.Context, state string) ([]domain.CarDealer, error) {
	state = strings.TrimSpace(state)
	if state == "" {
		return s.dealers.ListDealers(ctx)
	}
	return s.dealers.ListDealersByState(ctx, state)
}

func (s *dealerQueryService) Dealer(ctx context.Context, id int) (domain.CarDealer, error) {
	return s.dealers.GetDealer(ctx, id)
}

// DealerDetail fetches the dealer and its reviews. A failed sentiment call only
// leaves that review's label at "None".
func (s *dealerQueryService) DealerDetail(ctx context.Context, id int) (DealerDetail, error) {
	dealer, err := s.dealers.GetDealer(ctx, id)
	if err != nil {
		return DealerDetail{}, err
	}

	reviews, err := s.reviews.DealerReviews(ctx, id)
	if err != nil {
		return DealerDetail{Dealer: dealer}, err
	}

	for i := range reviews {
		reviews[i].Sentiment = domain.SentimentNone
		if s.sentiment == nil {
			continue
		}
		label, err := s.sentiment.Analyze(ctx, reviews[i].Review)
		if err != nil {
			s.logger.Warn("感情分析に失敗", zap.Int("reviewId", reviews[i].ID), zap.Error(err))
			continue
		}
		reviews[i].Sentiment = label
	}

	return DealerDetail{Dealer: dealer, Reviews: reviews}, nil
}
