package extraction

import (
	"regexp"
	"strings"
)

var tickerPattern = regexp.MustCompile(`\$?\b[A-Z]{1,5}\b`)

// tickerStoplist holds all-caps tokens that are common in questions but are not symbols.
var tickerStoplist = map[string]struct{}{
	"I": {}, "A": {}, "AI": {}, "CEO": {}, "CFO": {}, "CTO": {}, "COO": {},
	"US": {}, "USA": {}, "UK": {}, "EU": {}, "USD": {}, "EUR": {},
	"EPS": {}, "ETF": {}, "IPO": {}, "GDP": {}, "CPI": {}, "SEC": {}, "FED": {},
	"PE": {}, "OK": {},
	"NYSE": {}, "DOW": {}, "NEWS": {}, "STOCK": {}, "PRICE": {}, "SHOW": {}, "GIVE": {},
	"THE": {}, "IS": {}, "ON": {}, "OF": {}, "IN": {}, "AT": {}, "TO": {}, "FOR": {},
	"AND": {}, "OR": {}, "BY": {}, "IT": {}, "ARE": {}, "DO": {}, "ME": {}, "MY": {},
	"HOW": {}, "WHAT": {}, "WHO": {}, "WHY": {}, "WHEN": {}, "ANY": {}, "ABOUT": {}, "OPEN": {},
}

type tickerHit struct {
	pos    int
	ticker string
}

// findTickers returns upper-case 1-5 letter tokens, with any leading "$" stripped.
// A "$"-prefixed token is always kept, even when it is on the stoplist.
func findTickers(text string) []tickerHit {
	var hits []tickerHit
	for _, loc := range tickerPattern.FindAllStringIndex(text, -1) {
		token := text[loc[0]:loc[1]]
		cashtag := strings.HasPrefix(token, "$")
		token = strings.TrimPrefix(token, "$")
		if _, stop := tickerStoplist[token]; stop && !cashtag {
			continue
		}
		hits = append(hits, tickerHit{pos: loc[0], ticker: token})
	}
	return hits
}
