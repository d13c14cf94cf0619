package telegram

import (
	"context"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notice-guard/api/internal/notice/types"
)

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want types.AnalysisRequest
	}{
		{
			name: "text only",
			msg:  "  请到行政楼领取教材  ",
			want: types.AnalysisRequest{Text: "请到行政楼领取教材"},
		},
		{
			name: "scenario and profile",
			msg:  "#纪律处分\n画像：大一新生\n对违纪同学给予处分。\n请知悉。",
			want: types.AnalysisRequest{
				Text:     "对违纪同学给予处分。\n请知悉。",
				Scenario: "纪律处分",
				Audience: types.AudienceProfile{CustomNote: "大一新生"},
			},
		},
		{
			name: "ascii colon profile",
			msg:  "画像: 毕业班\r\n正文",
			want: types.AnalysisRequest{Text: "正文", Audience: types.AudienceProfile{CustomNote: "毕业班"}},
		},
		{
			name: "scenario without text",
			msg:  "\n#住宿后勤",
			want: types.AnalysisRequest{Scenario: "住宿后勤"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMessage(tt.msg))
		})
	}
}

func TestHighlight(t *testing.T) {
	text := "违者一律通报批评"
	got := Highlight(text, []types.Finding{
		{EvidenceSpan: "一律", Highlightable: true},
		{EvidenceSpan: "一律", Highlightable: true},
		{EvidenceSpan: "全部", Highlightable: false},
		{EvidenceSpan: "通报批评", Highlightable: false},
	})
	assert.Equal(t, "违者【一律】通报批评", got)
}

func sampleResult() types.AnalysisResult {
	return types.AnalysisResult{
		RiskScore: 62,
		RiskLevel: types.RiskHigh,
		Summary:   "措辞偏重",
		Findings:  []types.Finding{{Title: "一刀切", EvidenceSpan: "一律", Rationale: "缺少例外", RewriteHint: "改为原则上", Highlightable: true}},
		Emotions:  []types.EmotionSample{{GroupLabel: "普通学生", SentimentLabel: "不满", Intensity: 0.7, SampleComment: "为什么"}},
		Rewrites: []types.RewriteVariant{
			{Name: types.RewriteClarify, PredictedRiskScore: 40, RewrittenText: "澄清版"},
			{Name: types.RewriteReassure, PredictedRiskScore: 35, RewrittenText: "安抚版"},
			{Name: types.RewriteActionable, PredictedRiskScore: 30, RewrittenText: "行动版", Rationale: "补充流程"},
		},
		Gate:   types.GateVerdict{Category: types.CategoryOther, IsSubstantive: true},
		Source: types.SourceModel,
	}
}

func TestRender(t *testing.T) {
	out := Render("违者一律通报批评", sampleResult())

	assert.True(t, strings.HasPrefix(out, "风险评分：62（🔴 高）"))
	assert.Contains(t, out, "1. 一刀切「一律」")
	assert.Contains(t, out, "违者【一律】通报批评")
	assert.Contains(t, out, "• 普通学生：不满（70%） “为什么”")
	assert.Contains(t, out, "【Clarify】预计风险 40\n澄清版")
	assert.Contains(t, out, "说明：补充流程")
	assert.NotContains(t, out, "本地规则")
}

func TestRenderLocalRoutine(t *testing.T) {
	res := types.AnalysisResult{
		RiskScore: 10,
		RiskLevel: types.RiskLow,
		Gate:      types.GateVerdict{Category: types.CategoryTransactional, Reason: "事务性通知"},
		Source:    types.SourceLocal,
	}
	out := Render("请领取教材", res)
	assert.Contains(t, out, "（本地规则评估）")
	assert.Contains(t, out, "类型：Transactional，事务性通知")
	assert.NotContains(t, out, "风险点")
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"abc"}, splitMessage("abc", 10))

	parts := splitMessage("aaaa\nbbbb\ncccc", 10)
	assert.Equal(t, []string{"aaaa\nbbbb\n", "cccc"}, parts)

	long := strings.Repeat("风", 25)
	parts = splitMessage(long, 10)
	require.Len(t, parts, 3)
	for _, p := range parts {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), 10)
	}
	assert.Equal(t, long, strings.Join(parts, ""))
}

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.Text)
	}
	return out
}

type fakeAnalyzer struct {
	got []types.AnalysisRequest
}

func (f *fakeAnalyzer) Analyze(_ context.Context, req types.AnalysisRequest) (types.AnalysisResult, error) {
	f.got = append(f.got, req)
	if err := req.Validate(); err != nil {
		return types.AnalysisResult{}, err
	}
	return sampleResult(), nil
}

func textUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: 42}}}
}

func commandUpdate(cmd string) tgbotapi.Update {
	text := "/" + cmd
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 42},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func TestRouterAnalyzesText(t *testing.T) {
	bot := &fakeSender{}
	an := &fakeAnalyzer{}
	r := &Router{Bot: bot, Analyzer: an}

	r.HandleUpdate(context.Background(), textUpdate("#纪律处分\n违者一律通报批评"))

	require.Len(t, an.got, 1)
	assert.Equal(t, "纪律处分", an.got[0].Scenario)
	assert.Equal(t, "违者一律通报批评", an.got[0].Text)

	texts := bot.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, "正在分析…", texts[0])
	assert.Contains(t, texts[1], "风险评分：62")
}

func TestRouterEmptyNotice(t *testing.T) {
	bot := &fakeSender{}
	r := &Router{Bot: bot, Analyzer: &fakeAnalyzer{}}

	r.HandleUpdate(context.Background(), textUpdate("#住宿后勤"))
	assert.Equal(t, "请先输入通知正文。", bot.texts()[len(bot.texts())-1])
}

func TestRouterCommands(t *testing.T) {
	bot := &fakeSender{}
	an := &fakeAnalyzer{}
	r := &Router{Bot: bot, Analyzer: an}

	r.HandleUpdate(context.Background(), commandUpdate("help"))
	r.HandleUpdate(context.Background(), commandUpdate("scenarios"))
	r.HandleUpdate(context.Background(), commandUpdate("nope"))

	require.Len(t, bot.sent, 3)
	assert.Equal(t, helpText, bot.sent[0].Text)
	kb, ok := bot.sent[1].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, kb.InlineKeyboard, 3)
	assert.Contains(t, bot.sent[2].Text, "未知命令")
	assert.Empty(t, an.got)
}

func TestRouterScenarioCallback(t *testing.T) {
	bot := &fakeSender{}
	r := &Router{Bot: bot, Analyzer: &fakeAnalyzer{}}

	r.HandleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    scenarioCallbackPrefix + "奖助评优",
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 42}},
	}})

	texts := bot.texts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "场景「奖助评优」")
	assert.Contains(t, texts[0], "#奖助评优")
}
