// Package keywords matches lower-cased text against ordered keyword lists.
//
// A keyword matches as a whole word (or phrase) and may carry a simple
// inflection suffix, so "attitude" matches "attitudes" and "feel" matches
// "feeling", while "view" does not match "overview".
package keywords

import (
	"regexp"
	"strings"
)

const suffix = `(?:s|es|ing|ed)?`

// Set is an ordered list of keywords. It is immutable and safe for concurrent use.
type Set struct {
	words    []string
	patterns []*regexp.Regexp
	any      *regexp.Regexp
}

func New(words ...string) *Set {
	s := &Set{}
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		q := phrase(w)
		s.words = append(s.words, w)
		s.patterns = append(s.patterns, regexp.MustCompile(`\b`+q+suffix+`\b`))
		quoted = append(quoted, q)
	}
	if len(quoted) > 0 {
		s.any = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)` + suffix + `\b`)
	}
	return s
}

// phrase quotes w and lets any run of whitespace separate its words.
func phrase(w string) string {
	parts := strings.Fields(w)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return strings.Join(parts, `\s+`)
}

// Matches reports whether any keyword occurs in text. text must already be lower-cased.
func (s *Set) Matches(text string) bool {
	return s.any != nil && s.any.MatchString(text)
}

// First returns the earliest keyword in list order that occurs in text.
func (s *Set) First(text string) (string, bool) {
	for i, p := range s.patterns {
		if p.MatchString(text) {
			return s.words[i], true
		}
	}
	return "", false
}
