package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sngm3741/dealer-review-services/internal/dealership/domain"
)

// ErrReviewTextRequired is returned when the review body is blank.
var ErrReviewTextRequired = errors.New("review text is required")

// ReviewSubmissionService builds review documents from the add-review form.
type ReviewSubmissionService interface {
	Submit(ctx context.Context, cmd SubmitReviewCommand) (domain.ReviewPayload, error)
}

// SubmitReviewCommand is the add-review form after parsing.
type SubmitReviewCommand struct {
	DealerID     int
	Reviewer     string
	Username     string
	Content      string
	Purchase     bool
	CarModelID   uint
	PurchaseDate string
}

type reviewSubmissionService struct {
	reviews ReviewGateway
	cars    CarRepository
}

func NewReviewSubmissionService(reviews ReviewGateway, cars CarRepository) ReviewSubmissionService {
	return &reviewSubmissionService{reviews: reviews, cars: cars}
}

func (s *reviewSubmissionService) Submit(ctx context.Context, cmd SubmitReviewCommand) (domain.ReviewPayload, error) {
	content := strings.TrimSpace(cmd.Content)
	if content == "" {
		return domain.ReviewPayload{}, ErrReviewTextRequired
	}

	payload := domain.ReviewPayload{
		Name:       cmd.Reviewer,
		Dealership: cmd.DealerID,
		Review:     content,
		Purchase:   cmd.Purchase,
		Username:   cmd.Username,
	}

	if cmd.Purchase {
		payload.PurchaseDate = strings.TrimSpace(cmd.PurchaseDate)
		if cmd.CarModelID != 0 {
			model, err := s.findDealerModel(ctx, cmd.DealerID, cmd.CarModelID)
			if err != nil {
				return domain.ReviewPayload{}, err
			}
			payload.CarMake = model.MakeName
			payload.CarModel = model.Name
			payload.CarYear = model.Year
		}
	}

	if err := s.reviews.PostReview(ctx, payload); err != nil {
		return domain.ReviewPayload{}, err
	}
	return payload, nil
}

func (s *reviewSubmissionService) findDealerModel(ctx context.Context, dealerID int, modelID uint) (domain.CarModel, error) {
	models, err := s.cars.ListModels(ctx, domain.CarModelFilter{DealerID: &dealerID})
	if err != nil {
		return domain.CarModel{}, err
	}
	for _, m := range models {
		if m.ID == modelID {
			return m, nil
		}
	}
	return domain.CarModel{}, domain.ErrCarModelNotFound
}
