package heuristic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notice-guard/api/internal/notice/types"
)

const (
	routineText    = "请大家到行政楼301领取教材，工作日9:00-17:00"
	disciplineText = "对违纪同学一律给予通报批评处分，必须在周五前到办公室说明情况。"
	severeText     = "严查违纪，一律从严处理，开除学籍，后果自负，取消资格，罚款"
)

func TestScoreRoutine(t *testing.T) {
	res := Score(types.AnalysisRequest{Text: routineText})

	assert.False(t, res.Gate.IsSubstantive)
	assert.Equal(t, 10, res.RiskScore)
	assert.Equal(t, types.RiskLow, res.RiskLevel)
	assert.Equal(t, RoutineSummary, res.Summary)
	assert.Empty(t, res.Findings)
	assert.NotNil(t, res.Emotions)
	assert.Empty(t, res.Emotions)
	assert.Equal(t, types.SourceLocal, res.Source)

	require.Len(t, res.Rewrites, 3)
	for i, rw := range res.Rewrites {
		assert.Equal(t, types.CanonicalRewrites[i], rw.Name)
		assert.Equal(t, 5, rw.PredictedRiskScore)
		assert.True(t, strings.HasPrefix(rw.RewrittenText, routineText))
	}
}

func TestScoreDiscipline(t *testing.T) {
	res := Score(types.AnalysisRequest{Text: disciplineText})

	require.True(t, res.Gate.IsSubstantive)
	assert.Equal(t, types.CategoryDiscipline, res.Gate.Category)
	// 10 + 4 terms * 10
	assert.Equal(t, 50, res.RiskScore)
	assert.GreaterOrEqual(t, res.RiskScore, 40)
	assert.Equal(t, types.RiskMedium, res.RiskLevel)
	assert.True(t, strings.HasPrefix(res.Summary, LocalSummary))

	require.Len(t, res.Findings, 1)
	f := res.Findings[0]
	assert.Equal(t, "违纪", f.EvidenceSpan)
	assert.Equal(t, "纪律处分表述", f.Title)
	assert.True(t, f.Highlightable)
	assert.Contains(t, disciplineText, f.EvidenceSpan)
	assert.NotEmpty(t, f.Rationale)

	require.Len(t, res.Emotions, 3)
	for _, e := range res.Emotions {
		assert.GreaterOrEqual(t, e.Intensity, 0.0)
		assert.LessOrEqual(t, e.Intensity, 1.0)
	}

	require.Len(t, res.Rewrites, 3)
	wantScores := []int{30, 25, 20}
	for i, rw := range res.Rewrites {
		assert.Equal(t, types.CanonicalRewrites[i], rw.Name)
		assert.Equal(t, wantScores[i], rw.PredictedRiskScore)
		assert.NotContains(t, rw.RewrittenText, "一律")
		assert.NotContains(t, rw.RewrittenText, "必须")
		assert.Contains(t, rw.RewrittenText, "提醒教育")
	}
}

func TestScoreSevere(t *testing.T) {
	res := Score(types.AnalysisRequest{Text: severeText, Audience: types.AudienceProfile{Sensitivity: "高"}})

	// 10 + min(8*10, 70) + 15
	assert.Equal(t, 95, res.RiskScore)
	assert.Equal(t, types.RiskHigh, res.RiskLevel)

	require.Len(t, res.Findings, 1)
	assert.Equal(t, "严查", res.Findings[0].EvidenceSpan)
	assert.Contains(t, res.Findings[0].RewriteHint, "重点排查")

	require.Len(t, res.Emotions, 3)
	assert.Equal(t, 0.9, res.Emotions[2].Intensity)
	assert.Equal(t, "敏感关注群体（敏感度高）", res.Emotions[2].GroupLabel)
}

func TestScoreDisciplineFloor(t *testing.T) {
	text := "违反规定者必须记过。"
	res := Score(types.AnalysisRequest{Text: text})

	require.True(t, res.Gate.IsSubstantive)
	assert.Equal(t, types.CategoryDiscipline, res.Gate.Category)
	assert.Equal(t, 20, New(nil).RiskScore(text))
	assert.Equal(t, 40, res.RiskScore)
	assert.Equal(t, types.RiskMedium, res.RiskLevel)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, "记过", res.Findings[0].EvidenceSpan)
	for _, rw := range res.Rewrites {
		assert.Less(t, rw.PredictedRiskScore, res.RiskScore)
	}
}

func TestRiskScoreThresholds(t *testing.T) {
	s := New(nil)
	tests := []struct {
		text  string
		score int
		level types.RiskLevel
	}{
		{"迟到者后果自负", 20, types.RiskLow},
		{"违纪者后果自负", 30, types.RiskMedium},
		{"违纪者一律处分，后果自负", 50, types.RiskMedium},
		{"违纪者一律处分，后果自负，严肃处理", 60, types.RiskHigh},
		{"情节严重者开除", 35, types.RiskMedium},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := s.RiskScore(tt.text)
			assert.Equal(t, tt.score, got)
			assert.Equal(t, tt.level, types.LevelForScore(got))
		})
	}
}

func TestFindingKeepsWrittenCase(t *testing.T) {
	res := Score(types.AnalysisRequest{Text: "A formal REPRIMAND will be issued."})
	require.Len(t, res.Findings, 1)
	assert.Equal(t, "REPRIMAND", res.Findings[0].EvidenceSpan)
	assert.True(t, res.Findings[0].Highlightable)
}

func TestFindingForPolicyCategory(t *testing.T) {
	text := "根据宿舍管理规定，晚上十一点后不得使用电器。"
	res := Score(types.AnalysisRequest{Text: text})
	require.Equal(t, types.CategoryPolicy, res.Gate.Category)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, "规定", res.Findings[0].EvidenceSpan)
	assert.Equal(t, 10, res.RiskScore)
}

func TestVariant(t *testing.T) {
	s := New(nil)
	req := types.AnalysisRequest{Text: disciplineText}
	full := s.Score(req)
	for i, name := range types.CanonicalRewrites {
		assert.Equal(t, full.Rewrites[i], s.Variant(req, name))
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	req := types.AnalysisRequest{Text: severeText}
	assert.Equal(t, Score(req), Score(req))
}
