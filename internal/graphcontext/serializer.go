// Package graphcontext renders graph query results as plain text context for grounded generation.
package graphcontext

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"financial-graphrag/internal/models"
)

// NoData is returned for an empty result set regardless of intent.
const NoData = "No relevant data found in the knowledge graph."

const notAvailable = "N/A"

type blockFunc func(b *strings.Builder, rec models.Record)

// Serialize renders results with the block format of the given intent.
// Intents without a dedicated format get an indented JSON dump of the records.
func Serialize(intent models.Intent, results models.ResultSet) string {
	if len(results) == 0 {
		return NoData
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Query Intent: %s\n", intent)
	fmt.Fprintf(&b, "Retrieved %d results from the knowledge graph:\n", len(results))

	block := blockFor(intent)
	if block == nil {
		raw, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			raw = []byte(fmt.Sprintf("%v", results))
		}
		b.WriteString("\n")
		b.Write(raw)
		return b.String()
	}

	for _, rec := range results {
		block(&b, rec)
	}
	return strings.TrimRight(b.String(), "\n")
}

func blockFor(intent models.Intent) blockFunc {
	switch intent {
	case models.IntentCompanyInfo:
		return companyBlock
	case models.IntentSectorCompanies:
		return func(b *strings.Builder, rec models.Record) {
			if _, ok := rec["company_count"]; ok {
				sectorBlock(b, rec)
				return
			}
			companyBlock(b, rec)
		}
	case models.IntentCompanyNews, models.IntentTrendingNews:
		return newsBlock
	case models.IntentCompanyEvents:
		return eventBlock
	case models.IntentSentimentAnalysis:
		return sentimentBlock
	case models.IntentMarketOverview:
		return sectorBlock
	}
	return nil
}

func companyBlock(b *strings.Builder, rec models.Record) {
	fmt.Fprintf(b, "\nCompany: %s (%s)\n", text(rec, "name", notAvailable), text(rec, "symbol", notAvailable))
	fmt.Fprintf(b, "  Sector: %s\n", text(rec, "sector", notAvailable))
	if _, ok := rec["industry"]; ok {
		fmt.Fprintf(b, "  Industry: %s\n", text(rec, "industry", notAvailable))
	}
	if v, ok := number(rec, "price"); ok {
		fmt.Fprintf(b, "  Current Price: $%.2f\n", v)
	}
	if v, ok := number(rec, "price_change_pct"); ok {
		fmt.Fprintf(b, "  Price Change: %.2f%%\n", v)
	}
	if v, ok := number(rec, "market_cap"); ok {
		fmt.Fprintf(b, "  Market Cap: $%s\n", money(v))
	}
}

func newsBlock(b *strings.Builder, rec models.Record) {
	fmt.Fprintf(b, "\nHeadline: %s\n", text(rec, "headline", notAvailable))
	if _, ok := rec["company_name"]; ok {
		fmt.Fprintf(b, "  Company: %s\n", text(rec, "company_name", notAvailable))
	}
	fmt.Fprintf(b, "  Source: %s\n", text(rec, "source", notAvailable))
	fmt.Fprintf(b, "  Published: %s\n", text(rec, "published_at", notAvailable))
	fmt.Fprintf(b, "  Sentiment: %s\n", text(rec, "sentiment", string(models.SentimentNeutral)))
	if summary := text(rec, "summary", ""); summary != "" {
		fmt.Fprintf(b, "  Summary: %s\n", summary)
	}
}

func eventBlock(b *strings.Builder, rec models.Record) {
	fmt.Fprintf(b, "\nEvent Type: %s\n", text(rec, "event_type", notAvailable))
	fmt.Fprintf(b, "  Description: %s\n", text(rec, "description", notAvailable))
	fmt.Fprintf(b, "  Timestamp: %s\n", text(rec, "timestamp", notAvailable))
	fmt.Fprintf(b, "  Impact: %s\n", text(rec, "impact", notAvailable))
}

func sentimentBlock(b *strings.Builder, rec models.Record) {
	fmt.Fprintf(b, "\nCompany: %s\n", text(rec, "company_name", notAvailable))
	fmt.Fprintf(b, "  Sentiment: %s\n", text(rec, "sentiment", notAvailable))
	fmt.Fprintf(b, "  Article Count: %s\n", text(rec, "count", "0"))
	if v, ok := number(rec, "avg_score"); ok {
		fmt.Fprintf(b, "  Average Score: %.2f\n", v)
	}
}

func sectorBlock(b *strings.Builder, rec models.Record) {
	fmt.Fprintf(b, "\nSector: %s\n", text(rec, "sector", notAvailable))
	fmt.Fprintf(b, "  Companies: %s\n", text(rec, "company_count", "0"))
	if v, ok := number(rec, "avg_change"); ok {
		fmt.Fprintf(b, "  Average Change: %.2f%%\n", v)
	}
	if v, ok := number(rec, "total_market_cap"); ok {
		fmt.Fprintf(b, "  Total Market Cap: $%s\n", money(v))
	}
}

// text renders rec[key], or def when the key is missing, null or blank.
func text(rec models.Record, key, def string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return def
	}
	if f, isNum := toFloat(v); isNum {
		if f == float64(int64(f)) {
			return fmt.Sprintf("%d", int64(f))
		}
		return fmt.Sprintf("%v", f)
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return def
	}
	return s
}

// number reports rec[key] as a float when it is present and non-zero.
func number(rec models.Record, key string) (float64, bool) {
	f, ok := toFloat(rec[key])
	return f, ok && f != 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// money formats v with thousands separators and no decimals.
func money(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.0f", v)
}
