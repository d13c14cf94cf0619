package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"notice-guard/api/internal/notice/types"
)

const scenarioCallbackPrefix = "scenario:"

// Two scenario buttons per row.
func makeScenarioKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, s := range types.Scenarios {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(s.Name, scenarioCallbackPrefix+s.Name))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
