package extraction

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Alias maps a lower-case company name to its canonical ticker.
type Alias struct {
	Name   string
	Ticker string
}

// DefaultAliases is the static name→ticker table, in lookup order.
var DefaultAliases = []Alias{
	{"apple", "AAPL"},
	{"microsoft", "MSFT"},
	{"google", "GOOGL"},
	{"alphabet", "GOOGL"},
	{"amazon", "AMZN"},
	{"tesla", "TSLA"},
	{"meta", "META"},
	{"facebook", "META"},
	{"nvidia", "NVDA"},
	{"jpmorgan", "JPM"},
	{"jp morgan", "JPM"},
	{"chase", "JPM"},
	{"visa", "V"},
	{"walmart", "WMT"},
	{"netflix", "NFLX"},
	{"paypal", "PYPL"},
	{"adobe", "ADBE"},
	{"salesforce", "CRM"},
	{"oracle", "ORCL"},
	{"intel", "INTC"},
	{"amd", "AMD"},
	{"qualcomm", "QCOM"},
	{"cisco", "CSCO"},
	{"ibm", "IBM"},
	{"twitter", "TWTR"},
	{"uber", "UBER"},
	{"lyft", "LYFT"},
	{"airbnb", "ABNB"},
	{"spotify", "SPOT"},
	{"zoom", "ZM"},
	{"slack", "WORK"},
	{"docusign", "DOCU"},
	{"snowflake", "SNOW"},
	{"palantir", "PLTR"},
	{"robinhood", "HOOD"},
	{"coinbase", "COIN"},
}

type compiledAlias struct {
	Alias
	title   string
	pattern *regexp.Regexp
}

// AliasTable finds company names in text. It is read-only after construction.
type AliasTable struct {
	aliases []compiledAlias
}

func NewAliasTable(aliases []Alias) *AliasTable {
	caser := cases.Title(language.English)
	t := &AliasTable{aliases: make([]compiledAlias, 0, len(aliases))}
	for _, a := range aliases {
		name := strings.ToLower(strings.TrimSpace(a.Name))
		if name == "" || a.Ticker == "" {
			continue
		}
		t.aliases = append(t.aliases, compiledAlias{
			Alias:   Alias{Name: name, Ticker: strings.ToUpper(a.Ticker)},
			title:   caser.String(name),
			pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`),
		})
	}
	return t
}

// Names returns the alias names in table order.
func (t *AliasTable) Names() []string {
	out := make([]string, 0, len(t.aliases))
	for _, a := range t.aliases {
		out = append(out, a.Name)
	}
	return out
}

type aliasHit struct {
	pos    int
	ticker string
	title  string
}

// find returns the first occurrence of every alias present in lower.
func (t *AliasTable) find(lower string) []aliasHit {
	var hits []aliasHit
	for _, a := range t.aliases {
		loc := a.pattern.FindStringIndex(lower)
		if loc == nil {
			continue
		}
		hits = append(hits, aliasHit{pos: loc[0], ticker: a.Ticker, title: a.title})
	}
	return hits
}
