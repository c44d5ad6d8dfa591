package services

import (
	"regexp"
	"strings"
)

// Tier is one of the three cost/capability levels of the Gemini API.
type Tier int

const (
	TierLite Tier = iota
	TierStandard
	TierTop
)

// Model returns the Gemini model name backing the tier.
func (t Tier) Model() string {
	switch t {
	case TierTop:
		return "gemini-2.5-pro"
	case TierStandard:
		return "gemini-2.5-flash"
	default:
		return "gemini-2.5-flash-lite"
	}
}

func (t Tier) String() string {
	switch t {
	case TierTop:
		return "top"
	case TierStandard:
		return "standard"
	default:
		return "lite"
	}
}

// routingRules is the single keyword table driving the complexity score.
// Each family is compiled into one case-insensitive alternation; every
// non-overlapping match anywhere in the text contributes its weight.
// Patterns cover English and Indonesian.
var routingRules = []struct {
	weight   int
	patterns []string
}{
	{5, []string{
		`derivative`, `integral`, `big-?o`, `complexity`,
		`dynamic programming`, `regex`, `sql`, `stack trace`, `panic`,
		`traceback`, `recursion`, `algorithm`, `theorem`,
		`bukti`, `turunan`, `induksi`, `np[-\s]?sulit`, `kompleksitas`,
		`pemrograman dinamis`, `jejak tumpukan`, `jejak kesalahan`,
		`jejak error`, `jejak`, `algoritma`, `teorema`, `persamaan`,
		`matematika`, `logika`, `berpikir keras`, `pikir keras`, `buktikan`,
		`soal sulit`, `tantangan`, `uji`, `uji coba`, `uji hipotesis`,
	}},
	{2, []string{
		`apa itu`, `jelaskan`, `analisa`, `penjelasan`, `mengapa`, `kenapa`,
		`sulit`, `perbaiki`, `kesalahan`, `masalah`, `solusi`, `langkah`,
		`cara`, `bagaimana`, `penyebab`, `penyelesaian`,
		`what is`, `explain`, `why`, `how`, `fix`, `debug`, `analyze`,
	}},
}

const questionWeight = 1

type keywordFamily struct {
	pattern *regexp.Regexp
	weight  int
}

// RouterService scores message complexity and picks a model tier.
type RouterService struct {
	baseScore       int
	highThreshold   int
	mediumThreshold int
	tokenThreshold  int
	families        []keywordFamily
}

// NewRouterService compiles the keyword table once and returns a router with
// the given thresholds.
func NewRouterService(baseScore, highThreshold, mediumThreshold, tokenThreshold int) *RouterService {
	families := make([]keywordFamily, 0, len(routingRules))
	for _, rule := range routingRules {
		families = append(families, keywordFamily{
			pattern: regexp.MustCompile(`(?i)` + strings.Join(rule.patterns, "|")),
			weight:  rule.weight,
		})
	}
	return &RouterService{
		baseScore:       baseScore,
		highThreshold:   highThreshold,
		mediumThreshold: mediumThreshold,
		tokenThreshold:  tokenThreshold,
		families:        families,
	}
}

// Score computes the weighted complexity score of one message. Keyword
// families are independent: text matching both a hard and a medium pattern
// contributes both weights.
func (r *RouterService) Score(text string) int {
	score := r.baseScore
	for _, f := range r.families {
		score += f.weight * len(f.pattern.FindAllStringIndex(text, -1))
	}
	score += questionWeight * strings.Count(text, "?")
	return score
}

// SelectTier maps a score and an optional context token estimate to a tier.
// The top tier is reserved for messages that score hard and whose context is
// long enough to justify the cost; when the token estimate is unavailable
// (tokensKnown false) the score alone decides that branch.
func (r *RouterService) SelectTier(score, tokens int, tokensKnown bool) Tier {
	if score >= r.highThreshold && (!tokensKnown || tokens > r.tokenThreshold) {
		return TierTop
	}
	if score >= r.mediumThreshold {
		return TierStandard
	}
	return TierLite
}
