// Package nlp holds HTTP clients for the named-entity and sentiment models served
// next to the query service.
package nlp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	commonhttp "financial-graphrag/internal/common/http"
	"financial-graphrag/internal/models"
)

var ErrModelUnavailable = errors.New("MODEL_UNAVAILABLE")

type textRequest struct {
	Text string `json:"text"`
}

type nerResponse struct {
	Entities []models.NamedEntity `json:"entities"`
}

// NERClient calls a token-classification endpoint.
type NERClient struct {
	url  string
	http *commonhttp.Client
}

func NewNERClient(url string, timeout time.Duration, maxRetries int) *NERClient {
	return &NERClient{url: url, http: commonhttp.NewClientWithRetries(timeout, maxRetries)}
}

func (c *NERClient) Recognize(ctx context.Context, text string) ([]models.NamedEntity, error) {
	var resp nerResponse
	if err := c.http.PostJSON(ctx, c.url, textRequest{Text: text}, &resp); err != nil {
		return nil, fmt.Errorf("%w: ner: %v", ErrModelUnavailable, err)
	}
	out := make([]models.NamedEntity, 0, len(resp.Entities))
	for _, e := range resp.Entities {
		e.Label = strings.ToUpper(strings.TrimSpace(e.Label))
		e.Text = strings.TrimSpace(e.Text)
		if e.Text == "" {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type sentimentResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SentimentClient calls a financial sentiment classifier.
type SentimentClient struct {
	url  string
	http *commonhttp.Client
}

func NewSentimentClient(url string, timeout time.Duration, maxRetries int) *SentimentClient {
	return &SentimentClient{url: url, http: commonhttp.NewClientWithRetries(timeout, maxRetries)}
}

func (c *SentimentClient) Score(ctx context.Context, text string) (models.Sentiment, error) {
	var resp sentimentResponse
	if err := c.http.PostJSON(ctx, c.url, textRequest{Text: text}, &resp); err != nil {
		return models.NeutralSentiment, fmt.Errorf("%w: sentiment: %v", ErrModelUnavailable, err)
	}
	return models.Sentiment{Label: NormalizeLabel(resp.Label), Score: resp.Score}, nil
}

// NormalizeLabel maps classifier labels onto positive, negative or neutral.
func NormalizeLabel(label string) models.SentimentLabel {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.HasPrefix(l, "pos"), l == "bullish":
		return models.SentimentPositive
	case strings.HasPrefix(l, "neg"), l == "bearish":
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}
