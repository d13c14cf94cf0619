package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"notice-guard/api/internal/notice/types"
)

// handleCallback answers scenario buttons with the scenario focus and the
// prefix to put in front of the notice text.
func (r *Router) handleCallback(cb tgbotapi.CallbackQuery) {
	if _, err := r.Bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		r.logger().Debug("callback ack failed", zap.Error(err))
	}
	if cb.Message == nil || !strings.HasPrefix(cb.Data, scenarioCallbackPrefix) {
		return
	}
	cid := cb.Message.Chat.ID
	name := strings.TrimPrefix(cb.Data, scenarioCallbackPrefix)
	sc, ok := types.LookupScenario(name)
	if !ok {
		r.send(cid, "未知场景："+name)
		return
	}
	r.send(cid, "场景「"+sc.Name+"」："+sc.Focus+"\n\n在通知正文前加一行 #"+sc.Name+" 即可按该场景分析。")
}
