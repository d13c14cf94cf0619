package types

import "strings"

type Category string

const (
	CategoryTransactional      Category = "Transactional"
	CategoryPolicy             Category = "Policy"
	CategoryDiscipline         Category = "Discipline"
	CategoryResourceAllocation Category = "ResourceAllocation"
	CategoryOther              Category = "Other"
)

// GateVerdict is derived from the request text alone.
type GateVerdict struct {
	Category      Category            `json:"category"`
	IsSubstantive bool                `json:"is_substantive"`
	Reason        string              `json:"reason"`
	Matches       map[string][]string `json:"matches,omitempty"` // keyword group -> matched terms
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// LevelForScore: <30 LOW, <60 MEDIUM, else HIGH.
func LevelForScore(score int) RiskLevel {
	switch {
	case score < 30:
		return RiskLow
	case score < 60:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// ParseRiskLevel accepts any casing plus the Chinese labels. ok=false when
// the value is not a known level.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW", "低", "低风险":
		return RiskLow, true
	case "MEDIUM", "MID", "中", "中风险":
		return RiskMedium, true
	case "HIGH", "高", "高风险":
		return RiskHigh, true
	}
	return "", false
}

type Finding struct {
	Title        string `json:"title"`
	EvidenceSpan string `json:"evidence_span"`
	Rationale    string `json:"rationale"`
	RewriteHint  string `json:"rewrite_hint"`
	// Highlightable is false when EvidenceSpan is not a literal substring of
	// the analyzed text. Such findings are listed but never highlighted.
	Highlightable bool `json:"highlightable"`
}

type EmotionSample struct {
	GroupLabel     string  `json:"group_label"`
	SentimentLabel string  `json:"sentiment_label"`
	Intensity      float64 `json:"intensity"` // 0..1
	SampleComment  string  `json:"sample_comment"`
}

type RewriteName string

const (
	RewriteClarify    RewriteName = "Clarify"
	RewriteReassure   RewriteName = "Reassure"
	RewriteActionable RewriteName = "Actionable"
)

// CanonicalRewrites is the fixed order of the three variants.
var CanonicalRewrites = [3]RewriteName{RewriteClarify, RewriteReassure, RewriteActionable}

var rewriteAliases = map[string]RewriteName{
	"clarify":    RewriteClarify,
	"clarity":    RewriteClarify,
	"澄清":         RewriteClarify,
	"澄清型":        RewriteClarify,
	"说明":         RewriteClarify,
	"reassure":   RewriteReassure,
	"reassuring": RewriteReassure,
	"安抚":         RewriteReassure,
	"安抚型":        RewriteReassure,
	"共情":         RewriteReassure,
	"actionable": RewriteActionable,
	"action":     RewriteActionable,
	"行动":         RewriteActionable,
	"行动型":        RewriteActionable,
	"可执行":        RewriteActionable,
}

// ParseRewriteName maps a declared variant name onto the canonical taxonomy.
func ParseRewriteName(s string) (RewriteName, bool) {
	n, ok := rewriteAliases[strings.ToLower(strings.TrimSpace(s))]
	return n, ok
}

type RewriteVariant struct {
	Name               RewriteName `json:"name"`
	PredictedRiskScore int         `json:"predicted_risk_score"` // 0..100
	RewrittenText      string      `json:"rewritten_text"`
	Rationale          string      `json:"rationale"`
}

type Source string

const (
	SourceModel Source = "model"
	SourceLocal Source = "local"
)

// AnalysisResult always carries exactly three rewrites in canonical order.
type AnalysisResult struct {
	RiskScore int              `json:"risk_score"`
	RiskLevel RiskLevel        `json:"risk_level"`
	Summary   string           `json:"summary"`
	Findings  []Finding        `json:"findings"`
	Emotions  []EmotionSample  `json:"emotions"`
	Rewrites  []RewriteVariant `json:"rewrites"`
	Gate      GateVerdict      `json:"gate_verdict"`
	Source    Source           `json:"source"`
}
