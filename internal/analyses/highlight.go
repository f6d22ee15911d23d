package analyses

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"justiplay-backend/internal/shared/metrics"
)

// minClauseChars guards against false-positive matches: very short clause
// texts match unrelated document text too easily.
const minClauseChars = 10

type clauseSpan struct {
	start     int
	end       int
	riskClass string
}

// Highlight wraps each clause's source excerpt in a risk-tagged <mark>
// element. All spans are computed against the original text before any
// markup is inserted, so earlier insertions can never corrupt later
// matches. At most one span per clause (first match only); clauses that
// match nothing are silently omitted.
func Highlight(text string, clauses []Clause) string {
	spans := computeSpans(text, clauses)
	if len(spans) == 0 {
		return text
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var b strings.Builder
	b.Grow(len(text) + len(spans)*32)
	prev := 0
	for _, s := range spans {
		b.WriteString(text[prev:s.start])
		fmt.Fprintf(&b, `<mark class="%s">`, s.riskClass)
		b.WriteString(text[s.start:s.end])
		b.WriteString("</mark>")
		prev = s.end
	}
	b.WriteString(text[prev:])
	return b.String()
}

// computeSpans resolves clause texts to non-overlapping source spans.
// Longest clause texts are matched first so a short clause that is a
// substring of a longer one cannot consume the longer clause's span. When
// two clauses resolve to intersecting regions, the first to match wins and
// the other is dropped (no overlap resolution).
func computeSpans(text string, clauses []Clause) []clauseSpan {
	ordered := make([]Clause, len(clauses))
	copy(ordered, clauses)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Text) > len(ordered[j].Text)
	})

	var spans []clauseSpan
	for _, clause := range ordered {
		clauseText := strings.TrimSpace(clause.Text)
		if utf8.RuneCountInString(clauseText) < minClauseChars {
			continue
		}

		start, end := findMatch(text, clauseText)
		if start < 0 || overlapsAny(spans, start, end) {
			metrics.IncClauseHighlightMissed()
			continue
		}

		riskClass := "risk-" + strings.ToLower(string(NormalizeRisk(clause.Risk)))
		spans = append(spans, clauseSpan{start: start, end: end, riskClass: riskClass})
		metrics.IncClauseHighlightMatched()
	}
	return spans
}

// findMatch locates the first occurrence of clauseText in text: exact
// substring first, then a whitespace-tolerant case-insensitive match so
// line wrapping and justification in the source don't defeat matching.
func findMatch(text, clauseText string) (int, int) {
	if idx := strings.Index(text, clauseText); idx >= 0 {
		return idx, idx + len(clauseText)
	}

	normalized := strings.Join(strings.Fields(clauseText), " ")
	if normalized == "" {
		return -1, -1
	}
	pattern := strings.ReplaceAll(regexp.QuoteMeta(normalized), " ", `\s+`)
	re, err := regexp.Compile(`(?i)` + pattern)
	if err != nil {
		return -1, -1
	}
	if loc := re.FindStringIndex(text); loc != nil {
		return loc[0], loc[1]
	}
	return -1, -1
}

func overlapsAny(spans []clauseSpan, start, end int) bool {
	for _, s := range spans {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}
