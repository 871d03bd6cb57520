package validate

import (
	"regexp"
	"strings"

	"github.com/ppiankov/caselens/internal/model"
	"github.com/ppiankov/caselens/internal/textnorm"
)

// TierPattern assigns a tier to law names matching Pattern.
type TierPattern struct {
	Pattern string
	Tier    string
}

// AuthorityRules configures an AuthorityClassifier.
type AuthorityRules struct {
	// Exact maps a law name, without the 中华人民共和国 prefix, to a tier.
	Exact map[string]string

	// Patterns are tried in order after Exact.
	Patterns []TierPattern
}

// DefaultAuthorityRules covers the naming conventions of PRC legislation.
func DefaultAuthorityRules() AuthorityRules {
	return AuthorityRules{
		Exact: map[string]string{
			"民法典":     "law",
			"民事诉讼法":   "law",
			"劳动合同法":   "law",
			"劳动法":     "law",
			"道路交通安全法": "law",
			"婚姻法":     "law",
			"合同法":     "law",
			"侵权责任法":   "law",
		},
		Patterns: []TierPattern{
			{Pattern: `^最高人民法院`, Tier: "judicial-interpretation"},
			{Pattern: `^最高人民检察院`, Tier: "judicial-interpretation"},
			{Pattern: `(司法)?解释(\([一二三四五六七八九十]+\))?$`, Tier: "judicial-interpretation"},
			{Pattern: `(条例|规定|办法|规章|细则|实施意见)$`, Tier: "regulation"},
			{Pattern: `法(典)?$`, Tier: "law"},
		},
	}
}

// AuthorityClassifier classifies cited laws into authority tiers
type AuthorityClassifier struct {
	exact    map[string]model.AuthorityTier
	patterns []*compiledPattern
}

type compiledPattern struct {
	pattern *regexp.Regexp
	tier    model.AuthorityTier
}

// NewAuthorityClassifier creates a classifier. Patterns that do not compile
// are ignored.
func NewAuthorityClassifier(rules *AuthorityRules) *AuthorityClassifier {
	if rules == nil {
		r := DefaultAuthorityRules()
		rules = &r
	}

	c := &AuthorityClassifier{
		exact:    make(map[string]model.AuthorityTier, len(rules.Exact)),
		patterns: make([]*compiledPattern, 0, len(rules.Patterns)),
	}
	for name, tier := range rules.Exact {
		c.exact[textnorm.LawKey(name)] = parseTierString(tier)
	}
	for _, p := range rules.Patterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		c.patterns = append(c.patterns, &compiledPattern{pattern: re, tier: parseTierString(p.Tier)})
	}
	return c
}

// Classify returns the authority tier of a law name such as
// 《中华人民共和国民法典》 or 最高人民法院关于审理民间借贷案件适用法律若干问题的规定.
func (a *AuthorityClassifier) Classify(law string) model.AuthorityTier {
	key := textnorm.LawKey(law)
	if key == "" {
		return model.TierOther
	}

	if tier, ok := a.exact[key]; ok {
		return tier
	}

	for _, cp := range a.patterns {
		if cp.pattern.MatchString(key) {
			return cp.tier
		}
	}

	return model.TierOther
}

// parseTierString converts a tier string to AuthorityTier
func parseTierString(tier string) model.AuthorityTier {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case "law", "法律", "1":
		return model.TierLaw
	case "judicial-interpretation", "司法解释", "2":
		return model.TierJudicialInterpretation
	case "regulation", "法规", "规章", "3":
		return model.TierRegulation
	default:
		return model.TierOther
	}
}
