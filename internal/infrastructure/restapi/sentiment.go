package restapi

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sngm3741/dealer-review-services/internal/dealership/domain"
)

const sentimentAPIVersion = "2021-08-01"

// SentimentAnalyzer labels review text using a Watson NLU compatible endpoint.
type SentimentAnalyzer struct {
	client  *Client
	baseURL string
	enabled bool
}

type analyzeRequest struct {
	Text     string          `json:"text"`
	Features analyzeFeatures `json:"features"`
	Language string          `json:"language"`
}

type analyzeFeatures struct {
	Sentiment struct{} `json:"sentiment"`
}

type analyzeResponse struct {
	Sentiment struct {
		Document struct {
			Label string  `json:"label"`
			Score float64 `json:"score"`
		} `json:"document"`
	} `json:"sentiment"`
}

// NewSentimentAnalyzer returns an analyzer; an empty baseURL disables it.
func NewSentimentAnalyzer(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *SentimentAnalyzer {
	var opts []Option
	if apiKey != "" {
		opts = append(opts, WithBasicAuth("apikey", apiKey))
	}
	return &SentimentAnalyzer{
		client:  NewClient(timeout, logger, opts...),
		baseURL: baseURL,
		enabled: baseURL != "",
	}
}

func (s *SentimentAnalyzer) IsEnabled() bool {
	return s.enabled
}

// Analyze returns a title-cased label such as "Positive", or "None" when disabled.
func (s *SentimentAnalyzer) Analyze(ctx context.Context, text string) (string, error) {
	if !s.enabled || strings.TrimSpace(text) == "" {
		return domain.SentimentNone, nil
	}

	req := analyzeRequest{Text: text, Language: "en"}
	var resp analyzeResponse
	params := url.Values{"version": {sentimentAPIVersion}}
	if err := s.client.PostJSON(ctx, s.baseURL+"/v1/analyze", params, req, &resp); err != nil {
		return domain.SentimentNone, err
	}
	return titleLabel(resp.Sentiment.Document.Label), nil
}

func titleLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return domain.SentimentNone
	}
	return strings.ToUpper(label[:1]) + strings.ToLower(label[1:])
}
