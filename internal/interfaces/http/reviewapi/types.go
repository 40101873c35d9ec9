package reviewapi

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/sngm3741/dealer-review-services/internal/review/domain"
)

type reviewResponse struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Dealership   int    `json:"dealership"`
	Review       string `json:"review"`
	Purchase     bool   `json:"purchase"`
	PurchaseDate string `json:"purchase_date,omitempty"`
	CarMake      string `json:"car_make,omitempty"`
	CarModel     string `json:"car_model,omitempty"`
	CarYear      int    `json:"car_year,omitempty"`
	Username     string `json:"username"`

	Extra map[string]any `json:"-"`
}

// MarshalJSON は既知フィールドに投稿時の追加キーを並べて出力する。
// 既知フィールドと同名のキーは既知フィールドが優先される。
func (r reviewResponse) MarshalJSON() ([]byte, error) {
	type plain reviewResponse
	base, err := json.Marshal(plain(r))
	if err != nil || len(r.Extra) == 0 {
		return base, err
	}

	var known map[string]json.RawMessage
	if err := json.Unmarshal(base, &known); err != nil {
		return nil, err
	}
	merged := make(map[string]any, len(known)+len(r.Extra))
	for key, value := range r.Extra {
		merged[key] = value
	}
	for key, value := range known {
		merged[key] = value
	}
	return json.Marshal(merged)
}

// postReviewRequest mirrors review_schema.json. Numbers stay json.Number;
// integral floats such as 15.0 are accepted.
type postReviewRequest struct {
	ID           json.Number `json:"id"`
	Name         string      `json:"name"`
	Dealership   json.Number `json:"dealership"`
	Review       string      `json:"review"`
	Purchase     bool        `json:"purchase"`
	PurchaseDate string      `json:"purchase_date"`
	CarMake      string      `json:"car_make"`
	CarModel     string      `json:"car_model"`
	CarYear      json.Number `json:"car_year"`
	Username     string      `json:"username"`
}

type messageResponse struct {
	Message string `json:"message"`
}

var errNotInteger = errors.New("not an integer")

func toReviewResponse(review domain.Review) reviewResponse {
	return reviewResponse{
		ID:           review.ID,
		Name:         review.Name,
		Dealership:   review.Dealership,
		Review:       review.Review,
		Purchase:     review.Purchase,
		PurchaseDate: review.PurchaseDate,
		CarMake:      review.CarMake,
		CarModel:     review.CarModel,
		CarYear:      review.CarYear,
		Username:     review.Username,
		Extra:        review.Extra,
	}
}

func numberToInt(n json.Number) (int, error) {
	if n == "" {
		return 0, nil
	}
	if v, err := n.Int64(); err == nil {
		return int(v), nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, errNotInteger
	}
	return int(f), nil
}
