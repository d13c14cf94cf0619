// Package taxonomy holds the keyword tables behind the risk gate and the
// local scorer. The tables live in taxonomy.yaml so they can grow without
// touching control flow.
package taxonomy

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"notice-guard/api/internal/notice/types"
)

//go:embed taxonomy.yaml
var defaultYAML []byte

type Group string

const (
	GroupNegative         Group = "negative_consequence"
	GroupResource         Group = "resource_allocation"
	GroupDiscipline       Group = "discipline"
	GroupPolicy           Group = "policy"
	GroupStrongConstraint Group = "strong_constraint"
	GroupTransactional    Group = "transactional"
)

// Groups in reporting order.
var Groups = []Group{GroupNegative, GroupResource, GroupDiscipline, GroupPolicy, GroupStrongConstraint, GroupTransactional}

type Term struct {
	Term   string `yaml:"term"`
	Reason string `yaml:"reason"`
}

type SoftenRule struct {
	Literal string `yaml:"literal"`
	Regex   string `yaml:"regex"`
	Replace string `yaml:"replace"`

	re *regexp.Regexp
}

type Variant struct {
	Name      types.RewriteName `yaml:"name"`
	Suffix    string            `yaml:"suffix"`
	Discount  int               `yaml:"discount"`
	Rationale string            `yaml:"rationale"`
}

type Taxonomy struct {
	Groups            map[Group][]Term `yaml:"groups"`
	Severe            []Term           `yaml:"severe"`
	Soften            []SoftenRule     `yaml:"soften"`
	Variants          []Variant        `yaml:"variants"`
	LogisticsVariants []Variant        `yaml:"logistics_variants"`

	reasons map[string]string
}

var (
	defaultOnce sync.Once
	defaultTax  *Taxonomy
)

// Default returns the embedded tables. The result is shared and must be
// treated as read-only.
func Default() *Taxonomy {
	defaultOnce.Do(func() {
		t, err := Parse(defaultYAML)
		if err != nil {
			panic(fmt.Sprintf("taxonomy: embedded tables are invalid: %v", err))
		}
		defaultTax = t
	})
	return defaultTax
}

// Parse decodes and validates a taxonomy document.
func Parse(b []byte) (*Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}
	for i := range t.Soften {
		r := &t.Soften[i]
		if (r.Literal == "") == (r.Regex == "") {
			return nil, fmt.Errorf("soften rule %d: exactly one of literal/regex is required", i)
		}
		if r.Regex != "" {
			re, err := regexp.Compile(r.Regex)
			if err != nil {
				return nil, fmt.Errorf("soften rule %d: %w", i, err)
			}
			r.re = re
		}
	}
	if err := checkVariants("variants", t.Variants); err != nil {
		return nil, err
	}
	if err := checkVariants("logistics_variants", t.LogisticsVariants); err != nil {
		return nil, err
	}

	t.reasons = map[string]string{}
	for _, g := range Groups {
		for _, term := range t.Groups[g] {
			if term.Term == "" {
				return nil, fmt.Errorf("group %s: empty term", g)
			}
			if _, seen := t.reasons[term.Term]; !seen && term.Reason != "" {
				t.reasons[term.Term] = term.Reason
			}
		}
	}
	return &t, nil
}

func checkVariants(field string, vs []Variant) error {
	if len(vs) != len(types.CanonicalRewrites) {
		return fmt.Errorf("%s: want %d entries, got %d", field, len(types.CanonicalRewrites), len(vs))
	}
	for i, name := range types.CanonicalRewrites {
		if vs[i].Name != name {
			return fmt.Errorf("%s[%d]: want %s, got %q", field, i, name, vs[i].Name)
		}
	}
	return nil
}

// Match returns the terms of a group found in text, in table order.
func (t *Taxonomy) Match(g Group, text string) []string {
	return matchTerms(t.Groups[g], strings.ToLower(text))
}

// MatchSevere returns the severe-consequence terms found in text.
func (t *Taxonomy) MatchSevere(text string) []string {
	return matchTerms(t.Severe, strings.ToLower(text))
}

func matchTerms(terms []Term, lower string) []string {
	var out []string
	for _, term := range terms {
		if strings.Contains(lower, strings.ToLower(term.Term)) {
			out = append(out, term.Term)
		}
	}
	return out
}

// Reason is the table explanation for a term, or "" when none is recorded.
func (t *Taxonomy) Reason(term string) string {
	return t.reasons[term]
}

// SoftenText applies the softening rules in order.
func (t *Taxonomy) SoftenText(text string) string {
	for _, r := range t.Soften {
		if r.re != nil {
			text = r.re.ReplaceAllString(text, r.Replace)
			continue
		}
		text = strings.ReplaceAll(text, r.Literal, r.Replace)
	}
	return text
}

// Replacement returns the softened phrasing for a term, if a literal rule
// covers it.
func (t *Taxonomy) Replacement(term string) (string, bool) {
	for _, r := range t.Soften {
		if r.Literal == term {
			return r.Replace, true
		}
	}
	return "", false
}
