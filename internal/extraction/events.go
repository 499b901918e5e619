package extraction

import (
	"strings"

	"financial-graphrag/internal/keywords"
	"financial-graphrag/internal/models"
)

const eventConfidence = 0.8

type eventRule struct {
	eventType string
	words     *keywords.Set
}

var eventRules = []eventRule{
	{"earnings", keywords.New("earnings", "profit", "revenue", "quarterly results", "eps")},
	{"merger", keywords.New("merger", "acquisition", "acquires", "buys", "takeover")},
	{"ipo", keywords.New("ipo", "initial public offering", "goes public")},
	{"dividend", keywords.New("dividend", "payout", "distribution")},
	{"partnership", keywords.New("partnership", "collaboration", "alliance", "joint venture")},
	{"product_launch", keywords.New("launches", "introduces", "unveils", "announces new")},
	{"layoff", keywords.New("layoff", "job cuts", "workforce reduction")},
	{"executive_change", keywords.New("ceo", "cfo", "resigns", "appointed", "steps down")},
}

// DetectEvents reports at most one event per type, in table order.
func DetectEvents(text string) []models.Event {
	lower := strings.ToLower(text)
	events := []models.Event{}
	for _, rule := range eventRules {
		if kw, ok := rule.words.First(lower); ok {
			events = append(events, models.Event{
				Type:       rule.eventType,
				Keyword:    kw,
				Confidence: eventConfidence,
			})
		}
	}
	return events
}
