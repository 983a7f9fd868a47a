package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	postPort "postbot/internal/ports/post"
)

// postsKeyboard renders one row per post: [title] [edit] [delete].
func postsKeyboard(posts []*postPort.PostDTO) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(p.Title, callbackData(actionView, p.ID)),
			tgbotapi.NewInlineKeyboardButtonData(buttonEdit, callbackData(actionEdit, p.ID)),
			tgbotapi.NewInlineKeyboardButtonData(buttonDelete, callbackData(actionDelete, p.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(labelCreate),
			tgbotapi.NewKeyboardButton(labelList),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(labelEdit),
			tgbotapi.NewKeyboardButton(labelDelete),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(labelHelp),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// botCommands is the list shown in the Telegram command menu.
func botCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Начать"},
		{Command: "help", Description: "Что я умею"},
		{Command: "create", Description: "Создать пост: /create Название Описание"},
		{Command: "list", Description: "Посты с кнопками"},
		{Command: "view", Description: "Посты текстом"},
		{Command: "edit", Description: "Изменить пост: /edit ID текст"},
		{Command: "delete", Description: "Удалить пост: /delete ID"},
	}
}
