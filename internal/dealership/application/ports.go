package application

import (
	"context"

	"github.com/sngm3741/dealer-review-services/internal/dealership/domain"
)

// DealerDirectory は外部のディーラー在庫サービスを抽象化するポート。
type DealerDirectory interface {
	ListDealers(ctx context.Context) ([]domain.CarDealer, error)
	ListDealersByState(ctx context.Context, state string) ([]domain.CarDealer, error)
	GetDealer(ctx context.Context, id int) (domain.CarDealer, error)
}

// ReviewGateway はレビューマイクロサービスへの読み書きを抽象化するポート。
type ReviewGateway interface {
	DealerReviews(ctx context.Context, dealerID int) ([]domain.DealerReview, error)
	PostReview(ctx context.Context, review domain.ReviewPayload) error
}

// SentimentAnalyzer labels review text.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (string, error)
}

// CarRepository persists the car catalog.
type CarRepository interface {
	ListMakes(ctx context.Context) ([]domain.CarMake, error)
	FindMake(ctx context.Context, id uint) (domain.CarMake, error)
	CreateMake(ctx context.Context, carMake *domain.CarMake) error
	DeleteMake(ctx context.Context, id uint) error
	ListModels(ctx context.Context, filter domain.CarModelFilter) ([]domain.CarModel, error)
	CreateModel(ctx context.Context, model *domain.CarModel) error
	DeleteModel(ctx context.Context, id uint) error
}

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
