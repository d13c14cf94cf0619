package telegram

import (
	"fmt"
	"strings"

	"notice-guard/api/internal/notice/types"
)

var levelLabels = map[types.RiskLevel]string{
	types.RiskLow:    "🟢 低",
	types.RiskMedium: "🟡 中",
	types.RiskHigh:   "🔴 高",
}

// Render formats a result as plain text. Only evidence spans that occur
// verbatim in the original text are marked in the highlighted copy.
func Render(original string, res types.AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "风险评分：%d（%s）\n", res.RiskScore, levelLabel(res.RiskLevel))
	if res.Source == types.SourceLocal {
		b.WriteString("（本地规则评估）\n")
	}
	if !res.Gate.IsSubstantive {
		fmt.Fprintf(&b, "类型：%s，%s\n", res.Gate.Category, res.Gate.Reason)
	}
	if res.Summary != "" {
		b.WriteString("\n" + res.Summary + "\n")
	}

	if len(res.Findings) > 0 {
		b.WriteString("\n风险点：\n")
		for i, f := range res.Findings {
			fmt.Fprintf(&b, "%d. %s", i+1, f.Title)
			if f.EvidenceSpan != "" {
				fmt.Fprintf(&b, "「%s」", f.EvidenceSpan)
			}
			b.WriteString("\n")
			if f.Rationale != "" {
				b.WriteString("   原因：" + f.Rationale + "\n")
			}
			if f.RewriteHint != "" {
				b.WriteString("   建议：" + f.RewriteHint + "\n")
			}
		}
		if marked := Highlight(original, res.Findings); marked != original {
			b.WriteString("\n原文标注：\n" + marked + "\n")
		}
	}

	if len(res.Emotions) > 0 {
		b.WriteString("\n情绪模拟：\n")
		for _, e := range res.Emotions {
			fmt.Fprintf(&b, "• %s：%s（%.0f%%）", e.GroupLabel, e.SentimentLabel, e.Intensity*100)
			if e.SampleComment != "" {
				b.WriteString(" “" + e.SampleComment + "”")
			}
			b.WriteString("\n")
		}
	}

	for _, rw := range res.Rewrites {
		fmt.Fprintf(&b, "\n【%s】预计风险 %d\n%s\n", rw.Name, rw.PredictedRiskScore, rw.RewrittenText)
		if rw.Rationale != "" {
			b.WriteString("说明：" + rw.Rationale + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Highlight wraps every highlightable span in 【】 in original.
func Highlight(original string, findings []types.Finding) string {
	out := original
	seen := map[string]bool{}
	for _, f := range findings {
		span := f.EvidenceSpan
		if !f.Highlightable || span == "" || seen[span] || !strings.Contains(out, span) {
			continue
		}
		seen[span] = true
		out = strings.ReplaceAll(out, span, "【"+span+"】")
	}
	return out
}

func levelLabel(l types.RiskLevel) string {
	if s, ok := levelLabels[l]; ok {
		return s
	}
	return string(l)
}
