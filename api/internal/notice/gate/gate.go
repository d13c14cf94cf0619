// Package gate decides whether a notice carries a substantive risk trigger
// or is routine transactional text.
package gate

import (
	"fmt"
	"strings"

	"notice-guard/api/internal/notice/taxonomy"
	"notice-guard/api/internal/notice/types"
)

// MinTransactionalHints is how many logistics hints a text needs before it
// counts as transactional.
const MinTransactionalHints = 2

type Gate struct {
	tax *taxonomy.Taxonomy
}

func New(tax *taxonomy.Taxonomy) *Gate {
	if tax == nil {
		tax = taxonomy.Default()
	}
	return &Gate{tax: tax}
}

// Evaluate classifies text with the embedded taxonomy.
func Evaluate(text string) types.GateVerdict {
	return New(nil).Evaluate(text)
}

// Evaluate is pure and total: the same text always yields the same verdict.
func (g *Gate) Evaluate(text string) types.GateVerdict {
	matches := map[string][]string{}
	for _, grp := range taxonomy.Groups {
		if m := g.tax.Match(grp, text); len(m) > 0 {
			matches[string(grp)] = m
		}
	}
	negative := matches[string(taxonomy.GroupNegative)]
	resource := matches[string(taxonomy.GroupResource)]
	discipline := matches[string(taxonomy.GroupDiscipline)]
	policy := matches[string(taxonomy.GroupPolicy)]
	constraint := matches[string(taxonomy.GroupStrongConstraint)]
	hints := matches[string(taxonomy.GroupTransactional)]

	constrainedPolicy := len(policy) > 0 && len(constraint) > 0
	substantive := len(negative) > 0 || len(resource) > 0 || len(discipline) > 0 || constrainedPolicy

	v := types.GateVerdict{IsSubstantive: substantive}
	if len(matches) > 0 {
		v.Matches = matches
	}

	switch {
	case len(discipline) > 0:
		v.Category = types.CategoryDiscipline
		v.Reason = "命中纪律处分类表述：" + join(discipline)
	case len(resource) > 0:
		v.Category = types.CategoryResourceAllocation
		v.Reason = "涉及奖助评优/资源分配：" + join(resource)
	case constrainedPolicy:
		v.Category = types.CategoryPolicy
		v.Reason = fmt.Sprintf("制度类表述（%s）与强约束措辞（%s）同时出现", join(policy), join(constraint))
	case substantive:
		v.Category = types.CategoryOther
		v.Reason = "含惩罚/强制导向措辞：" + join(negative)
	case len(hints) >= MinTransactionalHints:
		v.Category = types.CategoryTransactional
		v.Reason = "事务性通知（" + join(hints) + "），未发现实质性风险触发词；语气与格式问题不视为风险"
	default:
		v.Category = types.CategoryOther
		v.Reason = "未发现实质性风险触发词"
	}

	if substantive && len(negative) > 0 && v.Category != types.CategoryOther {
		v.Reason += "；另含惩罚/强制导向措辞：" + join(negative)
	}
	if !substantive && len(policy) > 0 {
		v.Reason += "；制度类表述未与强约束措辞同时出现，不计入风险"
	}
	return v
}

func join(terms []string) string {
	return strings.Join(terms, "、")
}
