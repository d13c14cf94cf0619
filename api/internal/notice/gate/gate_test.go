package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notice-guard/api/internal/notice/types"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		substantive bool
		category    types.Category
	}{
		{
			name:        "pure logistics",
			text:        "请大家到行政楼301领取教材，工作日9:00-17:00",
			substantive: false,
			category:    types.CategoryTransactional,
		},
		{
			name:        "discipline with mandatory tone",
			text:        "对违纪同学一律给予通报批评处分，必须在周五前到办公室说明情况。",
			substantive: true,
			category:    types.CategoryDiscipline,
		},
		{
			name:        "resource allocation",
			text:        "本年度奖学金名额已确定，请查看公示。",
			substantive: true,
			category:    types.CategoryResourceAllocation,
		},
		{
			name:        "discipline wins over resource",
			text:        "作弊者取消奖学金评选资格。",
			substantive: true,
			category:    types.CategoryDiscipline,
		},
		{
			name:        "policy with strong constraint",
			text:        "根据宿舍管理规定，晚上十一点后不得使用电器。",
			substantive: true,
			category:    types.CategoryPolicy,
		},
		{
			name:        "policy alone is not substantive",
			text:        "宿舍管理规定已更新，欢迎查阅。",
			substantive: false,
			category:    types.CategoryOther,
		},
		{
			name:        "negative consequence only",
			text:        "迟到者后果自负。",
			substantive: true,
			category:    types.CategoryOther,
		},
		{
			name:        "casual tone is not a risk",
			text:        "哈哈大家记得来玩呀！！",
			substantive: false,
			category:    types.CategoryOther,
		},
		{
			name:        "single logistics hint",
			text:        "报名开始了",
			substantive: false,
			category:    types.CategoryOther,
		},
		{
			name:        "english discipline",
			text:        "Students involved will receive a formal reprimand.",
			substantive: true,
			category:    types.CategoryDiscipline,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Evaluate(tt.text)
			assert.Equal(t, tt.substantive, v.IsSubstantive)
			assert.Equal(t, tt.category, v.Category)
			assert.NotEmpty(t, v.Reason)
		})
	}
}

func TestEvaluateMatches(t *testing.T) {
	v := Evaluate("对违纪同学一律给予通报批评处分")
	require.True(t, v.IsSubstantive)
	assert.ElementsMatch(t, []string{"处分", "通报批评", "违纪"}, v.Matches["discipline"])
	assert.Equal(t, []string{"一律"}, v.Matches["negative_consequence"])
	assert.Contains(t, v.Reason, "另含惩罚/强制导向措辞")
}

func TestEvaluateNoMatches(t *testing.T) {
	v := Evaluate("你好")
	assert.Nil(t, v.Matches)
	assert.False(t, v.IsSubstantive)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	text := "根据奖学金评定细则，必须在截止时间前提交材料，逾期一律不予受理。"
	first := Evaluate(text)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Evaluate(text))
	}
}

// Quoted historical examples still flag; the keyword lists carry no context.
func TestQuotedDisciplineTermStillFlags(t *testing.T) {
	v := Evaluate("校史馆展出了1950年“开除学籍”的原始档案，欢迎参观。")
	assert.True(t, v.IsSubstantive)
	assert.Equal(t, types.CategoryDiscipline, v.Category)
}
