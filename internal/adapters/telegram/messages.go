package telegram

import "unicode/utf16"

// Reply texts. The bot speaks Russian to its users.
const (
	msgWelcome = "Добро пожаловать, %s! 🌸 Ты теперь часть нашей команды!"
	msgStart   = "Привет-привет! 🐾 Я твой бот-помощник для управления постами. Вот мои команды:\n\n" +
		"✨ /start - Начать наше приключение\n" +
		"🌈 /help - Узнать мои умения\n" +
		"📋 /create - Создать новый пост\n" +
		"📑 /list - Список постов с кнопками\n" +
		"👀 /view - Просмотреть все посты текстом\n" +
		"🖊️ /edit - Изменить пост\n" +
		"🗑️ /delete - Удалить пост\n\n" +
		"Давай творить магию вместе! ✨"
	msgHelp = "Я умею:\n" +
		"🌟 /create Название Описание - Создавать новые посты\n" +
		"📑 /list - Показывать посты с кнопками\n" +
		"👀 /view - Показывать посты текстом\n" +
		"💡 /edit ID новый текст - Редактировать посты\n" +
		"🗑️ /delete ID - Удалять посты\n\n" +
		"Если есть вопросы, просто зови меня! 🌷"
	msgMenuHelpSuffix = "\n\nА ещё можно пользоваться кнопками меню внизу 👇"

	msgCreateUsage     = "Пожалуйста, укажите название и описание через пробел: /create Название Описание"
	msgCreateLineUsage = "Пожалуйста, отправьте пост в формате: Название, Описание"
	msgEditUsage       = "Пожалуйста, укажите ID поста и новый текст: /edit ID новый текст"
	msgEditLineUsage   = "Пожалуйста, отправьте изменения в формате: ID, Новое название, Новое описание"
	msgDeleteUsage     = "Пожалуйста, укажите ID поста: /delete ID"
	msgTitleTooLong    = "Название слишком длинное: не больше 200 символов."
	msgTypeError       = "ID поста должен быть целым числом, например: 5"
	msgNotRegistered   = "Пользователь не найден. Зарегистрируйтесь через /start."
	msgNotFound        = "Пост не найден."
	msgUnknownCommand  = "Не знаю такой команды 🙈 Наберите /help, чтобы узнать мои умения."
	msgUnknownAction   = "Неизвестное действие."
	msgCommandsHint    = "Я понимаю только команды. Наберите /help, чтобы узнать мои умения."
	msgMenuHint        = "Выберите действие в меню ниже 👇"
	msgApology         = "Ой, что-то пошло не так 😿 Попробуйте ещё раз чуть позже."

	msgCreated    = "Пост '%s' создан! 🎉"
	msgUpdated    = "Пост '%s' обновлен! 🌟"
	msgDeleted    = "Пост удален. 🗑️"
	msgViewPost   = "📋 Пост: %s\n\n%s"
	msgSummary    = "📋 %s: %s"
	msgOwnHeader  = "Ваши посты:"
	msgAllHeader  = "Все посты:"
	msgOwnEmpty   = "У вас пока нет постов. Создайте первый с помощью команды /create!"
	msgAllEmpty   = "Постов пока нет. Создайте первый с помощью команды /create!"
	msgEditPrompt = "Редактирование поста: %s\n\nОписание: %s\n\n"
	msgEditHint   = "Отправьте новое описание командой: /edit %d новый текст"
	msgEditMenu   = "Отправьте изменения в формате: %d, Новое название, Новое описание"

	msgArmCreate = "Отправьте пост в формате: Название, Описание"
	msgArmEdit   = "Отправьте изменения в формате: ID, Новое название, Новое описание"
	msgArmDelete = "Отправьте ID поста, который нужно удалить."

	defaultDisplayName = "солнышко"
)

// Menu button labels (menu mode).
const (
	labelCreate = "📝 Создать пост"
	labelList   = "📋 Мои посты"
	labelEdit   = "✏️ Редактировать"
	labelDelete = "🗑️ Удалить"
	labelHelp   = "❓ Помощь"

	buttonEdit   = "Редактировать"
	buttonDelete = "Удалить"
)

// maxMessageUnits is Telegram's limit for one text message, counted in
// UTF-16 code units (most emoji take two).
const maxMessageUnits = 4096

func truncate(text string) string {
	if utf16Len(text) <= maxMessageUnits {
		return text
	}
	units := 0
	for i, r := range text {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		// leave room for the one-unit ellipsis
		if units+n > maxMessageUnits-1 {
			return text[:i] + "…"
		}
		units += n
	}
	return text
}

func utf16Len(text string) int {
	units := 0
	for _, r := range text {
		if n := utf16.RuneLen(r); n > 0 {
			units += n
		} else {
			units++
		}
	}
	return units
}
