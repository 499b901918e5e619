package nlp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"financial-graphrag/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNERClient_Recognize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req textRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Tim Cook spoke in Cupertino", req.Text)
		_, _ = w.Write([]byte(`{"entities":[
			{"text":"Tim Cook","label":"person","start":0,"end":8},
			{"text":" ","label":"ORG","start":9,"end":10},
			{"text":"Cupertino","label":"GPE","start":18,"end":27}
		]}`))
	}))
	defer srv.Close()

	c := NewNERClient(srv.URL, time.Second, 0)
	ents, err := c.Recognize(context.Background(), "Tim Cook spoke in Cupertino")

	require.NoError(t, err)
	require.Len(t, ents, 2)
	assert.Equal(t, models.NamedEntity{Text: "Tim Cook", Label: "PERSON", Start: 0, End: 8}, ents[0])
	assert.Equal(t, "GPE", ents[1].Label)
}

func TestNERClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewNERClient(srv.URL, time.Second, 1).Recognize(context.Background(), "x")

	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestSentimentClient_Score(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"label":"Negative","score":0.91}`))
	}))
	defer srv.Close()

	s, err := NewSentimentClient(srv.URL, time.Second, 0).Score(context.Background(), "shares plunge")

	require.NoError(t, err)
	assert.Equal(t, models.SentimentNegative, s.Label)
	assert.InDelta(t, 0.91, s.Score, 1e-9)
}

func TestSentimentClient_UnavailableIsNeutral(t *testing.T) {
	s, err := NewSentimentClient("http://127.0.0.1:1", 200*time.Millisecond, 0).Score(context.Background(), "x")

	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.Equal(t, models.NeutralSentiment, s)
}

func TestNormalizeLabel(t *testing.T) {
	tests := map[string]models.SentimentLabel{
		"positive": models.SentimentPositive,
		"POS":      models.SentimentPositive,
		"negative": models.SentimentNegative,
		"bearish":  models.SentimentNegative,
		"neutral":  models.SentimentNeutral,
		"LABEL_1":  models.SentimentNeutral,
		"":         models.SentimentNeutral,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeLabel(in), in)
	}
}
