package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"notice-guard/api/internal/notice/types"
)

// telegram caps a message at 4096 characters
const maxMessageRunes = 3900

type Analyzer interface {
	Analyze(ctx context.Context, req types.AnalysisRequest) (types.AnalysisResult, error)
}

// Sender is the part of *tgbotapi.BotAPI the router uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Router keeps no per-chat state: every message carries its own scenario and
// profile.
type Router struct {
	Bot      Sender
	Analyzer Analyzer
	Log      *zap.Logger
	Timeout  time.Duration
}

const helpText = `发送需要评估的通知/公告文本，我会给出风险评分、学生情绪模拟和三种改写建议。

可选格式：
#纪律处分
画像：大一新生，对管理措施较敏感
<通知正文>

命令：/scenarios 查看场景，/help 查看帮助`

func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	cid := upd.Message.Chat.ID

	if upd.Message.IsCommand() {
		r.HandleCommand(cid, upd.Message.Command())
		return
	}
	if strings.TrimSpace(upd.Message.Text) == "" {
		r.send(cid, "目前只支持文字消息。")
		return
	}
	r.analyze(ctx, cid, upd.Message.Text)
}

func (r *Router) HandleCommand(cid int64, cmd string) {
	switch cmd {
	case "start", "help":
		r.send(cid, helpText)
	case "scenarios":
		msg := tgbotapi.NewMessage(cid, "选择场景查看说明：")
		msg.ReplyMarkup = makeScenarioKeyboard()
		r.sendMsg(msg)
	case "health":
		r.send(cid, "✅ OK")
	default:
		r.send(cid, "未知命令，发送 /help 查看用法。")
	}
}

func (r *Router) analyze(ctx context.Context, cid int64, text string) {
	req := ParseMessage(text)
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	r.send(cid, "正在分析…")
	res, err := r.Analyzer.Analyze(ctx, req)
	if errors.Is(err, types.ErrEmptyText) {
		r.send(cid, "请先输入通知正文。")
		return
	}
	if err != nil {
		r.logger().Error("analyze failed", zap.Int64("chat_id", cid), zap.Error(err))
		r.send(cid, "分析失败："+err.Error())
		return
	}
	for _, part := range splitMessage(Render(req.Text, res), maxMessageRunes) {
		r.send(cid, part)
	}
}

func (r *Router) send(chatID int64, text string) {
	r.sendMsg(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) sendMsg(msg tgbotapi.MessageConfig) {
	if _, err := r.Bot.Send(msg); err != nil {
		r.logger().Warn("telegram send failed", zap.Int64("chat_id", msg.ChatID), zap.Error(err))
	}
}

func (r *Router) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// splitMessage cuts text on line boundaries into parts of at most limit runes.
func splitMessage(text string, limit int) []string {
	var parts []string
	var cur strings.Builder
	curLen := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		runes := []rune(line)
		for len(runes) > limit {
			if curLen > 0 {
				parts = append(parts, cur.String())
				cur.Reset()
				curLen = 0
			}
			parts = append(parts, string(runes[:limit]))
			runes = runes[limit:]
		}
		if curLen+len(runes) > limit {
			parts = append(parts, cur.String())
			cur.Reset()
			curLen = 0
		}
		cur.WriteString(string(runes))
		curLen += len(runes)
	}
	if curLen > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}
