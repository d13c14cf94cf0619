// Package heuristic is the offline scorer used whenever the generator is
// unavailable or its output cannot be recovered.
package heuristic

import (
	"strings"

	"notice-guard/api/internal/notice/gate"
	"notice-guard/api/internal/notice/taxonomy"
	"notice-guard/api/internal/notice/types"
)

const (
	baseScore        = 10
	perTermPoints    = 10
	maxTermAddition  = 70
	severeBonus      = 15
	minVariantScore  = 5
	highEmotionScore = 70
	routineScore     = 10
	// Discipline text is never below MEDIUM, however few terms it carries.
	disciplineFloor = 40

	LocalSummary   = "基于本地规则进行兜底分析（模型不可用或输出无法解析时启用）。"
	RoutineSummary = "常规事务性通知，未发现实质性风险触发词；建议补全办理要素即可。"
)

type Scorer struct {
	tax  *taxonomy.Taxonomy
	gate *gate.Gate
}

func New(tax *taxonomy.Taxonomy) *Scorer {
	if tax == nil {
		tax = taxonomy.Default()
	}
	return &Scorer{tax: tax, gate: gate.New(tax)}
}

// Score runs the local scorer with the embedded taxonomy.
func Score(req types.AnalysisRequest) types.AnalysisResult {
	return New(nil).Score(req)
}

// Score never fails and never leaves the process.
func (s *Scorer) Score(req types.AnalysisRequest) types.AnalysisResult {
	verdict := s.gate.Evaluate(req.Text)
	if !verdict.IsSubstantive {
		return types.AnalysisResult{
			RiskScore: routineScore,
			RiskLevel: types.RiskLow,
			Summary:   RoutineSummary,
			Findings:  []types.Finding{},
			Emotions:  []types.EmotionSample{},
			Rewrites:  s.rewrites(req.Text, routineScore, s.tax.LogisticsVariants, false),
			Gate:      verdict,
			Source:    types.SourceLocal,
		}
	}

	score := s.RiskScore(req.Text)
	if verdict.Category == types.CategoryDiscipline {
		score = max(score, disciplineFloor)
	}
	findings := []types.Finding{}
	if f, ok := s.firstFinding(req.Text, verdict); ok {
		findings = append(findings, f)
	}
	return types.AnalysisResult{
		RiskScore: score,
		RiskLevel: types.LevelForScore(score),
		Summary:   LocalSummary + verdict.Reason + "。",
		Findings:  findings,
		Emotions:  emotions(score, req.Audience),
		Rewrites:  s.rewrites(req.Text, score, s.tax.Variants, true),
		Gate:      verdict,
		Source:    types.SourceLocal,
	}
}

// RiskScore is the rule-based score for a substantive text: base 10, +10 per
// negative-consequence or discipline term (addition capped at 70), +15 when a
// severe-consequence term is present.
func (s *Scorer) RiskScore(text string) int {
	terms := len(s.tax.Match(taxonomy.GroupNegative, text)) + len(s.tax.Match(taxonomy.GroupDiscipline, text))
	add := terms * perTermPoints
	if add > maxTermAddition {
		add = maxTermAddition
	}
	score := baseScore + add
	if len(s.tax.MatchSevere(text)) > 0 {
		score += severeBonus
	}
	if score > 100 {
		score = 100
	}
	return score
}

var findingTitles = map[taxonomy.Group]string{
	taxonomy.GroupNegative:         "惩罚/强制导向措辞",
	taxonomy.GroupResource:         "资源分配公平性",
	taxonomy.GroupDiscipline:       "纪律处分表述",
	taxonomy.GroupPolicy:           "制度性强约束",
	taxonomy.GroupStrongConstraint: "命令式强约束",
}

// firstFinding reports the trigger that appears earliest in the text. The
// evidence is the term itself, so it is always a substring of the text.
func (s *Scorer) firstFinding(text string, v types.GateVerdict) (types.Finding, bool) {
	lower := strings.ToLower(text)
	bestPos := -1
	var bestTerm string
	var bestGroup taxonomy.Group
	for _, g := range []taxonomy.Group{taxonomy.GroupDiscipline, taxonomy.GroupNegative, taxonomy.GroupResource, taxonomy.GroupPolicy, taxonomy.GroupStrongConstraint} {
		if (g == taxonomy.GroupPolicy || g == taxonomy.GroupStrongConstraint) && v.Category != types.CategoryPolicy {
			continue
		}
		for _, term := range v.Matches[string(g)] {
			pos := strings.Index(lower, strings.ToLower(term))
			if pos >= 0 && (bestPos < 0 || pos < bestPos) {
				bestPos, bestTerm, bestGroup = pos, term, g
			}
		}
	}
	if bestPos < 0 {
		return types.Finding{}, false
	}

	// Report the span as written, which may differ in case from the table.
	span := bestTerm
	if end := bestPos + len(bestTerm); end <= len(text) {
		if written := text[bestPos:end]; strings.EqualFold(written, bestTerm) {
			span = written
		}
	}
	hint := "补充依据、流程与申诉/咨询渠道。"
	if repl, ok := s.tax.Replacement(bestTerm); ok {
		hint = "将“" + bestTerm + "”改为“" + repl + "”，并" + hint
	}
	rationale := s.tax.Reason(bestTerm)
	if rationale == "" {
		rationale = "该表述容易引发负面解读。"
	}
	return types.Finding{
		Title:         findingTitles[bestGroup],
		EvidenceSpan:  span,
		Rationale:     rationale,
		RewriteHint:   hint,
		Highlightable: strings.Contains(text, span),
	}, true
}

type rosterEntry struct {
	group     string
	sentiment [2]string  // normal, high
	intensity [2]float64 // normal, high
	comment   string
}

var roster = []rosterEntry{
	{
		group:     "普通在校学生",
		sentiment: [2]string{"轻度负面/观望", "中度负面"},
		intensity: [2]float64{0.35, 0.7},
		comment:   "能不能说清楚规则和执行标准？希望不要一刀切。",
	},
	{
		group:     "学生干部",
		sentiment: [2]string{"中性/担忧执行", "中度负面"},
		intensity: [2]float64{0.3, 0.6},
		comment:   "我们要去落实和解释，最好给出流程和咨询渠道。",
	},
	{
		group:     "敏感关注群体",
		sentiment: [2]string{"中度负面", "强烈负面"},
		intensity: [2]float64{0.5, 0.9},
		comment:   "处理的依据是什么？有没有申诉渠道和特殊情况的考虑？",
	},
}

func emotions(score int, audience types.AudienceProfile) []types.EmotionSample {
	idx := 0
	if score >= highEmotionScore {
		idx = 1
	}
	out := make([]types.EmotionSample, 0, len(roster))
	for i, r := range roster {
		label := r.group
		if i == len(roster)-1 {
			if s := strings.TrimSpace(audience.Sensitivity); s != "" {
				label += "（敏感度" + s + "）"
			}
		}
		out = append(out, types.EmotionSample{
			GroupLabel:     label,
			SentimentLabel: r.sentiment[idx],
			Intensity:      r.intensity[idx],
			SampleComment:  r.comment,
		})
	}
	return out
}

// rewrites builds the three canonical variants from the variant table.
func (s *Scorer) rewrites(text string, score int, table []taxonomy.Variant, soften bool) []types.RewriteVariant {
	body := strings.TrimSpace(text)
	if soften {
		body = s.tax.SoftenText(body)
	}
	out := make([]types.RewriteVariant, 0, len(table))
	for _, v := range table {
		out = append(out, types.RewriteVariant{
			Name:               v.Name,
			PredictedRiskScore: max(minVariantScore, score-v.Discount),
			RewrittenText:      body + v.Suffix,
			Rationale:          v.Rationale,
		})
	}
	return out
}

// Variant returns the local rewrite for one canonical name, used to backfill
// slots a generator left empty.
func (s *Scorer) Variant(req types.AnalysisRequest, name types.RewriteName) types.RewriteVariant {
	for _, v := range s.Score(req).Rewrites {
		if v.Name == name {
			return v
		}
	}
	return types.RewriteVariant{Name: name, PredictedRiskScore: minVariantScore, RewrittenText: strings.TrimSpace(req.Text)}
}
