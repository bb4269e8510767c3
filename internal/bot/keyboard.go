package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"advent-bot/internal/domain"
)

// emptyKeyboard strips an inline keyboard when used with an edit request
var emptyKeyboard = tgbotapi.InlineKeyboardMarkup{
	InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
}

func actionLabel(kind domain.ActionKind) string {
	switch kind {
	case domain.ActionBackstory:
		return backstoryButtonLabel
	case domain.ActionSubscribe:
		return subscribeButtonLabel
	case domain.ActionClue:
		return clueButtonLabel
	case domain.ActionQuestion:
		return questionButtonLabel
	case domain.ActionText:
		return textButtonLabel
	default:
		return string(kind)
	}
}

// episodeKeyboard lays the episode's actions out the way the campaign
// renders them: clue and question side by side, the text unlock on its own
// row below.
func episodeKeyboard(episode domain.Episode) tgbotapi.InlineKeyboardMarkup {
	var firstRow, secondRow []tgbotapi.InlineKeyboardButton
	for _, action := range episode.Actions {
		button := tgbotapi.NewInlineKeyboardButtonData(actionLabel(action.Kind), action.Token())
		if action.Kind == domain.ActionText {
			secondRow = append(secondRow, button)
		} else {
			firstRow = append(firstRow, button)
		}
	}

	rows := [][]tgbotapi.InlineKeyboardButton{firstRow}
	if len(secondRow) > 0 {
		rows = append(rows, secondRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func singleButtonKeyboard(label string, action domain.Action) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, action.Token()),
		),
	)
}
