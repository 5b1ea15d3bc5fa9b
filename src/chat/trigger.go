package chat

import (
	"regexp"
	"strings"
)

// Decision is the outcome of the search trigger heuristic. Search carries
// the derived query; when false the turn proceeds with the bare message.
type Decision struct {
	Search bool
	Query  string
}

// NoSearch is the decision for messages that need no web grounding.
var NoSearch = Decision{}

// DefaultKeywords is the compiled-in trigger set. It is a product choice,
// not a contract; deployments override it via the search_keywords setting.
var DefaultKeywords = []string{
	"search", "find", "look up", "what's happening", "latest", "recent",
	"current", "today", "right now", "news", "weather", "stock", "price",
	"update", "information about", "tell me about", "what is happening",
	"חפש", "מצא", "חדשות", "מזג אוויר", "מה קורה", "עדכונים",
}

// questionPatterns catch live-data questions that carry no keyword verbatim.
var questionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`what.*happening`),
	regexp.MustCompile(`what.*today`),
	regexp.MustCompile(`latest.*`),
	regexp.MustCompile(`current.*`),
	regexp.MustCompile(`recent.*`),
	regexp.MustCompile(`how much.*cost`),
	regexp.MustCompile(`price of.*`),
	regexp.MustCompile(`weather in.*`),
}

// queryPrefixes are explicit request verbs stripped from the front of the
// message when deriving the search query.
var queryPrefixes = []string{
	"search for", "search", "look up", "find",
}

// Detector decides whether a message needs web search. Matching is
// case-insensitive substring/regex matching; ties resolve in favor of
// searching, since a useless search beats a stale answer.
type Detector struct {
	keywords []string
}

// NewDetector builds a detector over the given keyword set; an empty set
// falls back to DefaultKeywords.
func NewDetector(keywords []string) *Detector {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			lowered = append(lowered, k)
		}
	}
	return &Detector{keywords: lowered}
}

// Detect is pure and always returns a decision; there are no error cases.
func (d *Detector) Detect(message string) Decision {
	lower := strings.ToLower(message)

	triggered := false
	for _, kw := range d.keywords {
		if strings.Contains(lower, kw) {
			triggered = true
			break
		}
	}
	if !triggered {
		for _, p := range questionPatterns {
			if p.MatchString(lower) {
				triggered = true
				break
			}
		}
	}
	if !triggered {
		return NoSearch
	}
	return Decision{Search: true, Query: deriveQuery(message)}
}

// deriveQuery strips a leading request verb ("search for ...", "look up ...")
// so the provider sees the subject, not the instruction. Anything else is
// passed through untouched.
func deriveQuery(message string) string {
	trimmed := strings.TrimSpace(message)
	lower := strings.ToLower(trimmed)
	for _, prefix := range queryPrefixes {
		if strings.HasPrefix(lower, prefix+" ") {
			rest := strings.TrimSpace(trimmed[len(prefix)+1:])
			if rest != "" {
				return rest
			}
		}
	}
	return trimmed
}
