package models

import "strings"

type EntityCategory string

const (
	CategoryTickers     EntityCategory = "tickers"
	CategoryCompanies   EntityCategory = "companies"
	CategorySectors     EntityCategory = "sectors"
	CategoryConcepts    EntityCategory = "concepts"
	CategoryPeople      EntityCategory = "people"
	CategoryLocations   EntityCategory = "locations"
	CategoryMoney       EntityCategory = "money"
	CategoryPercentages EntityCategory = "percentages"
	CategoryDates       EntityCategory = "dates"
)

var EntityCategories = []EntityCategory{
	CategoryTickers,
	CategoryCompanies,
	CategorySectors,
	CategoryConcepts,
	CategoryPeople,
	CategoryLocations,
	CategoryMoney,
	CategoryPercentages,
	CategoryDates,
}

// EntityBundle holds the entities extracted from one piece of text.
// Values within a category are unique and kept in insertion order, which is
// what makes "first ticker" selection deterministic.
type EntityBundle struct {
	Tickers     []string `json:"tickers"`
	Companies   []string `json:"companies"`
	Sectors     []string `json:"sectors"`
	Concepts    []string `json:"concepts"`
	People      []string `json:"people"`
	Locations   []string `json:"locations"`
	Money       []string `json:"money"`
	Percentages []string `json:"percentages"`
	Dates       []string `json:"dates"`
}

func NewEntityBundle() *EntityBundle {
	b := &EntityBundle{}
	b.normalize()
	return b
}

func (b *EntityBundle) field(cat EntityCategory) *[]string {
	switch cat {
	case CategoryTickers:
		return &b.Tickers
	case CategoryCompanies:
		return &b.Companies
	case CategorySectors:
		return &b.Sectors
	case CategoryConcepts:
		return &b.Concepts
	case CategoryPeople:
		return &b.People
	case CategoryLocations:
		return &b.Locations
	case CategoryMoney:
		return &b.Money
	case CategoryPercentages:
		return &b.Percentages
	case CategoryDates:
		return &b.Dates
	}
	return nil
}

// Add appends values to a category, skipping blanks and values already present.
func (b *EntityBundle) Add(cat EntityCategory, values ...string) {
	dst := b.field(cat)
	if dst == nil {
		return
	}
	if *dst == nil {
		*dst = []string{}
	}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || contains(*dst, v) {
			continue
		}
		*dst = append(*dst, v)
	}
}

func (b *EntityBundle) Values(cat EntityCategory) []string {
	dst := b.field(cat)
	if dst == nil {
		return nil
	}
	return *dst
}

func (b *EntityBundle) FirstTicker() (string, bool) {
	return first(b.Tickers)
}

func (b *EntityBundle) FirstCompany() (string, bool) {
	return first(b.Companies)
}

// Clone returns a deep copy with every category present.
func (b *EntityBundle) Clone() *EntityBundle {
	out := NewEntityBundle()
	if b == nil {
		return out
	}
	for _, cat := range EntityCategories {
		out.Add(cat, b.Values(cat)...)
	}
	return out
}

func (b *EntityBundle) normalize() {
	for _, cat := range EntityCategories {
		if dst := b.field(cat); *dst == nil {
			*dst = []string{}
		}
	}
}

func contains(values []string, v string) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}

func first(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}
