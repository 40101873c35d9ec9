package restapi

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/sngm3741/dealer-review-services/internal/dealership/domain"
)

// ReviewClient talks to the review microservice.
type ReviewClient struct {
	client  *Client
	baseURL string
}

func NewReviewClient(client *Client, baseURL string) *ReviewClient {
	return &ReviewClient{client: client, baseURL: baseURL}
}

type reviewPayload struct {
	ID           int         `json:"id"`
	Dealership   int         `json:"dealership"`
	Name         string      `json:"name"`
	Username     string      `json:"username"`
	Review       string      `json:"review"`
	Purchase     bool        `json:"purchase"`
	PurchaseDate string      `json:"purchase_date"`
	CarMake      string      `json:"car_make"`
	CarModel     string      `json:"car_model"`
	CarYear      looseString `json:"car_year"`
}

// DealerReviews returns the reviews of a dealership with sentiment set to "None".
func (c *ReviewClient) DealerReviews(ctx context.Context, dealerID int) ([]domain.DealerReview, error) {
	var payload []reviewPayload
	params := url.Values{"id": {strconv.Itoa(dealerID)}}
	if err := c.client.GetJSON(ctx, c.baseURL+"/api/get_reviews", params, &payload); err != nil {
		return nil, err
	}

	reviews := make([]domain.DealerReview, 0, len(payload))
	for _, p := range payload {
		year, err := strconv.Atoi(string(p.CarYear))
		if err != nil && p.CarYear != "" {
			c.client.logger.Debug("car_year が数値ではないため空として扱う",
				zap.Int("reviewId", p.ID),
				zap.String("carYear", string(p.CarYear)),
			)
		}
		reviews = append(reviews, domain.DealerReview{
			ID:           p.ID,
			Dealership:   p.Dealership,
			Name:         p.Name,
			Username:     p.Username,
			Review:       p.Review,
			Purchase:     p.Purchase,
			PurchaseDate: p.PurchaseDate,
			CarMake:      p.CarMake,
			CarModel:     p.CarModel,
			CarYear:      year,
			Sentiment:    domain.SentimentNone,
		})
	}
	return reviews, nil
}

// PostReview submits a review document.
func (c *ReviewClient) PostReview(ctx context.Context, review domain.ReviewPayload) error {
	var resp struct {
		Message string `json:"message"`
	}
	return c.client.PostJSON(ctx, c.baseURL+"/api/post_review", nil, review, &resp)
}
