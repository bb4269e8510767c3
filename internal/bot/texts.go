package bot

// User-facing texts, carried over from the original campaign
const (
	welcomeText = `<b>Добро пожаловать!</b>

Перед вами — литературно-детективный адвент-календарь🕵️

<b>Как он работает:</b>

📖 1. Каждый день вы получаете иллюстрацию с вопросом.
Это короткая рефлексия в форме «вопроса писателю».

🔎 2. После просмотра нажмите
«найти улику».
Бот пришлёт деталь, шифр или подсказку — один шаг в ежедневной цепочке загадок.

🗓 3. Все дни идут по порядку. Пропустили — сможете догнать.

🥂 4. В конце вас ждёт итоговое задание, где пригодятся все найденные улики и, конечно, ваша интуиция.

Держите глаза открытыми, отвечайте честно, собирайте детали — и наслаждайтесь атмосферой вместе с книжным клубом «Обещаю, завтра прочитаю!» (https://t.me/ricksschwifty)`

	backstoryText = `В закрытом клубе писателей должен был состояться аукцион редчайшей книги. Говорили, что она меняет судьбу того, кто её откроет… Впрочем, это лишь слухи.

Вечер обещал быть роскошным: шампанское, споры, блеск и лёгкое предновогоднее волнение!
Но в момент, когда ведущий снял вуаль с лота, гости замолкли: <b>книга исчезла</b>.

Теперь каждый взгляд — подозрение, каждый жест — возможная улика.

С этого момента вам предстоит расшифровывать намёки, задавать вопросы гостям и искать то, что спрятано между слов.

У вас есть 21 день, чтобы вернуть книгу.

И помните: в этом расследовании вы — не только наблюдатель. <i>Вы один из тех, кто был в зале.</i>`

	helpText = "🎄 <b>Команды адвент-календаря:</b>\n\n" +
		"/start - Начать работу с ботом\n" +
		"/history - Получить все прошлые материалы\n" +
		"/help - Справка\n\n" +
		"Каждый день в 10:00 МСК ты получишь новый материал!"

	notStartedText      = "⏳ Календарь еще не начался!"
	firstDayText        = "📍 Сегодня первый день! Нечего отправлять."
	historyDoneText     = "✅ История загружена!"
	subscribedAlertText = "✅ Вы подписаны! Начинайте расследование!"
	loadingHistoryText  = "📖 Загружаю для вас всю историю до текущего момента..."
	backfillDoneText    = "✅ История загружена! Теперь ты в курсе всех событий."
	fragmentMissingText = "❌ Часть текста не найдена"
)

// Inline button labels
const (
	backstoryButtonLabel = "Узнать предысторию"
	subscribeButtonLabel = "Присоединяюсь"
	clueButtonLabel      = "🔍 Найти улику"
	questionButtonLabel  = "❓ Вопрос"
	textButtonLabel      = "📖 Часть текста"
)

// historyAlias is the Cyrillic spelling of the catch-up command; Telegram
// restricts command names to Latin, so it is matched as a plain message.
const historyAlias = "история"
