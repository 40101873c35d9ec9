package domain

import "fmt"

// CarDealer はディーラー在庫サービスから取得した販売店情報。永続化しない。
type CarDealer struct {
	ID        int
	Address   string
	City      string
	FullName  string
	ShortName string
	State     string
	Zip       string
	Lat       float64
	Long      float64
}

func (d CarDealer) String() string {
	return "Dealer name: " + d.FullName
}

// DealerReview is a review as shown on a dealer page, with its sentiment label.
type DealerReview struct {
	ID           int
	Dealership   int
	Name         string
	Username     string
	Review       string
	Purchase     bool
	PurchaseDate string
	CarMake      string
	CarModel     string
	CarYear      int
	Sentiment    string
}

func (r DealerReview) String() string {
	return "Review: " + r.Review
}

// SentimentNone is the label used when no analysis is available.
const SentimentNone = "None"

// ReviewPayload is the document the web front-end posts to the review service.
type ReviewPayload struct {
	ID           int    `json:"id,omitempty"`
	Name         string `json:"name"`
	Dealership   int    `json:"dealership"`
	Review       string `json:"review"`
	Purchase     bool   `json:"purchase"`
	PurchaseDate string `json:"purchase_date,omitempty"`
	CarMake      string `json:"car_make,omitempty"`
	CarModel     string `json:"car_model,omitempty"`
	CarYear      int    `json:"car_year,omitempty"`
	Username     string `json:"username"`
}

func (p ReviewPayload) String() string {
	return fmt.Sprintf("Review: %s", p.Review)
}
