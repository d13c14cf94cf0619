package notice

import (
	"math"
	"strings"

	"notice-guard/api/internal/notice/heuristic"
	"notice-guard/api/internal/notice/taxonomy"
	"notice-guard/api/internal/notice/types"
)

const (
	// StyleSuggestionTitle replaces finding titles on non-substantive text.
	StyleSuggestionTitle = "表达风格建议"
	// SuppressedMaxScore caps the score when the gate found nothing substantive.
	SuppressedMaxScore = 25

	defaultSummary      = "模型未给出总体说明。"
	defaultFindingTitle = "风险表达"
	defaultGroupLabel   = "未命名群体"
	defaultLevelScore   = 50
	minPredictedScore   = 5
)

var levelScores = map[types.RiskLevel]int{
	types.RiskLow:    15,
	types.RiskMedium: 45,
	types.RiskHigh:   75,
}

// Normalizer enforces the canonical result schema on a decoded generator
// payload. It never fails.
type Normalizer struct {
	tax    *taxonomy.Taxonomy
	scorer *heuristic.Scorer
}

func NewNormalizer(tax *taxonomy.Taxonomy) *Normalizer {
	if tax == nil {
		tax = taxonomy.Default()
	}
	return &Normalizer{tax: tax, scorer: heuristic.New(tax)}
}

// Normalize uses the embedded taxonomy.
func Normalize(raw types.RawAnalysis, v types.GateVerdict, req types.AnalysisRequest) types.AnalysisResult {
	return NewNormalizer(nil).Normalize(raw, v, req)
}

func (n *Normalizer) Normalize(raw types.RawAnalysis, v types.GateVerdict, req types.AnalysisRequest) types.AnalysisResult {
	score, level := scoreAndLevel(raw)
	res := types.AnalysisResult{
		RiskScore: score,
		RiskLevel: level,
		Summary:   strings.TrimSpace(raw.Summary),
		Findings:  normalizeFindings(raw.Findings, req.Text),
		Emotions:  normalizeEmotions(raw.Emotions),
		Gate:      v,
		Source:    types.SourceModel,
	}
	if res.Summary == "" {
		res.Summary = defaultSummary
	}

	// The gate wins over the generator: routine text is never alarming.
	if !v.IsSubstantive {
		res.RiskLevel = types.RiskLow
		res.RiskScore = min(res.RiskScore, SuppressedMaxScore)
		if len(res.Findings) > 1 {
			res.Findings = res.Findings[:1]
		}
		for i := range res.Findings {
			res.Findings[i].Title = StyleSuggestionTitle
		}
		res.Emotions = []types.EmotionSample{}
	}

	res.Rewrites = n.canonicalRewrites(raw.Rewrites, res.RiskScore, req)
	if !v.IsSubstantive {
		for i := range res.Rewrites {
			res.Rewrites[i].PredictedRiskScore = min(res.Rewrites[i].PredictedRiskScore, SuppressedMaxScore)
		}
	}
	return res
}

func scoreAndLevel(raw types.RawAnalysis) (int, types.RiskLevel) {
	// The score is authoritative; a parsed level only stands in for a
	// missing score.
	if raw.RiskScore != nil {
		score := clampScore(*raw.RiskScore)
		return score, types.LevelForScore(score)
	}
	if level, ok := types.ParseRiskLevel(raw.RiskLevel); ok {
		return levelScores[level], level
	}
	return defaultLevelScore, types.LevelForScore(defaultLevelScore)
}

func clampScore(f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, f))))
}

func clampIntensity(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return math.Max(0, math.Min(1, f))
}

const spanQuotes = "\"'“”‘’「」『』《》"

func normalizeFindings(raw []types.RawFinding, text string) []types.Finding {
	out := make([]types.Finding, 0, len(raw))
	for _, f := range raw {
		span := strings.TrimSpace(f.EvidenceSpan)
		if span != "" && !strings.Contains(text, span) {
			if unq := strings.Trim(span, spanQuotes); unq != "" && strings.Contains(text, unq) {
				span = unq
			}
		}
		title := strings.TrimSpace(f.Title)
		if title == "" {
			title = defaultFindingTitle
		}
		out = append(out, types.Finding{
			Title:         title,
			EvidenceSpan:  span,
			Rationale:     strings.TrimSpace(f.Rationale),
			RewriteHint:   strings.TrimSpace(f.RewriteHint),
			Highlightable: span != "" && strings.Contains(text, span),
		})
	}
	return out
}

func normalizeEmotions(raw []types.RawEmotion) []types.EmotionSample {
	out := make([]types.EmotionSample, 0, len(raw))
	for _, e := range raw {
		var intensity float64
		if e.Intensity != nil {
			intensity = clampIntensity(*e.Intensity)
		}
		label := strings.TrimSpace(e.GroupLabel)
		if label == "" {
			label = defaultGroupLabel
		}
		out = append(out, types.EmotionSample{
			GroupLabel:     label,
			SentimentLabel: strings.TrimSpace(e.SentimentLabel),
			Intensity:      intensity,
			SampleComment:  strings.TrimSpace(e.SampleComment),
		})
	}
	return out
}

// canonicalRewrites buckets entries by declared name. The first entry for a
// canonical name takes its slot; unnamed, unknown and duplicate entries fill
// the remaining slots in their original order. Slots still empty get the
// local variant of the same name.
func (n *Normalizer) canonicalRewrites(raw []types.RawRewrite, score int, req types.AnalysisRequest) []types.RewriteVariant {
	var slots [len(types.CanonicalRewrites)]*types.RawRewrite
	var extras []*types.RawRewrite
	for i := range raw {
		r := &raw[i]
		if strings.TrimSpace(r.RewrittenText) == "" {
			continue
		}
		name, ok := types.ParseRewriteName(r.Name)
		if !ok {
			extras = append(extras, r)
			continue
		}
		idx := slotIndex(name)
		if slots[idx] != nil {
			extras = append(extras, r)
			continue
		}
		slots[idx] = r
	}
	for i := range slots {
		if slots[i] == nil && len(extras) > 0 {
			slots[i], extras = extras[0], extras[1:]
		}
	}

	out := make([]types.RewriteVariant, 0, len(slots))
	for i, name := range types.CanonicalRewrites {
		r := slots[i]
		if r == nil {
			out = append(out, n.scorer.Variant(req, name))
			continue
		}
		predicted := max(minPredictedScore, score-n.discount(name))
		if r.PredictedRiskScore != nil {
			predicted = clampScore(*r.PredictedRiskScore)
		}
		out = append(out, types.RewriteVariant{
			Name:               name,
			PredictedRiskScore: predicted,
			RewrittenText:      strings.TrimSpace(r.RewrittenText),
			Rationale:          strings.TrimSpace(r.Rationale),
		})
	}
	return out
}

func slotIndex(name types.RewriteName) int {
	for i, n := range types.CanonicalRewrites {
		if n == name {
			return i
		}
	}
	return -1
}

func (n *Normalizer) discount(name types.RewriteName) int {
	for _, v := range n.tax.Variants {
		if v.Name == name {
			return v.Discount
		}
	}
	return 0
}
