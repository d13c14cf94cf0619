package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	"notice-guard/api/internal/notice/types"
)

// AnalysisSchema is the JSON schema the generator must follow.
//
//go:embed analysis.schema.json
var AnalysisSchema string

// System is sent as the system instruction with every prompt.
const System = "你是一名高校宣传/学生工作/舆情风控顾问，负责对高校通知、公告、制度、处分与活动文本做发布前风险评估。你只输出符合给定 JSON Schema 的 JSON 对象。"

// GateAwareness keeps the generator from escalating routine text. It is
// embedded verbatim in every prompt.
const GateAwareness = `风险判定规则（必须遵守）：
1. 口语化、语气随意、格式不规范、错别字或标点问题都不是风险信号，最多作为表达风格建议。
2. 只有以下四类实质性内容才可以提高风险等级：惩罚/强制后果（处罚、强制、“不容商量”类措辞）；奖助评优与资源分配公平性；纪律处分；制度性要求与“必须/不得/无例外”等强约束措辞同时出现。
3. 不属于上述四类的常规事务性通知（领取、地点、时间、截止、联系方式等），risk_level 必须为 LOW，risk_score 不超过 25，emotions 返回空数组。`

const outputRules = `输出要求：
- 严格只输出 JSON 对象，不要输出任何解释文字，不要使用 Markdown 代码块。
- 字段名必须与下方 Schema 完全一致。
- findings[].evidence_span 必须逐字摘自“需要分析的文本”，不得改写或概括。
- rewrites 必须恰好 3 条，name 依次为 Clarify、Reassure、Actionable。
- emotions[].intensity 取值 0~1；risk_score 与 predicted_risk_score 为 0~100 的整数。`

// Build assembles the single instruction block for one analysis.
func Build(req types.AnalysisRequest, v types.GateVerdict) string {
	var sb strings.Builder

	sb.WriteString("请对下面的高校通知/公告文本做发布前风险评估，模拟不同学生群体的情绪反馈，并给出三种更稳妥的改写。\n\n")
	sb.WriteString(outputRules)
	sb.WriteString("\n\nJSON Schema：\n")
	sb.WriteString(strings.TrimSpace(AnalysisSchema))
	sb.WriteString("\n\n")

	sc, _ := types.LookupScenario(strings.TrimSpace(req.Scenario))
	if sc.Name != "" {
		_, _ = fmt.Fprintf(&sb, "场景：%s\n", sc.Name)
	}
	if sc.Focus != "" {
		_, _ = fmt.Fprintf(&sb, "场景说明：%s\n", sc.Focus)
	}
	if profile := req.Audience.Describe(); profile != "" {
		_, _ = fmt.Fprintf(&sb, "重点受众画像：%s。\n", profile)
	} else {
		sb.WriteString("重点受众画像：默认以在校学生为主。\n")
	}
	sb.WriteString("\n")

	sb.WriteString(GateAwareness)
	sb.WriteString("\n\n")
	_, _ = fmt.Fprintf(&sb, "规则预判：类别=%s，实质性风险=%t，依据：%s。\n", v.Category, v.IsSubstantive, v.Reason)
	if !v.IsSubstantive {
		sb.WriteString("预判为非实质性文本：请按第 3 条规则输出，仅可给出至多一条表达风格建议。\n")
	}
	sb.WriteString("\n需要分析的文本：\n\"\"\"")
	sb.WriteString(req.Text)
	sb.WriteString("\"\"\"\n")
	return sb.String()
}
