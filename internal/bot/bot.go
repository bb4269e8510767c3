// Package bot is the Telegram transport: it long-polls for updates, routes
// commands and button presses, and delivers composed episodes.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"advent-bot/internal/content"
	"advent-bot/internal/domain"
	"advent-bot/internal/repository"
	"advent-bot/internal/service"
	"advent-bot/pkg/logger"
)

// Bot wires the Telegram API to the campaign services. It implements
// service.Deliverer for the dispatcher.
type Bot struct {
	api        *tgbotapi.BotAPI
	campaign   *domain.Campaign
	store      *content.Store
	repo       repository.SubscriberRepository
	dispatcher *service.Dispatcher
	log        *logger.Logger

	now  func() time.Time
	wg   sync.WaitGroup
	stop chan struct{}
}

// New creates the bot transport
func New(token string, campaign *domain.Campaign, store *content.Store, repo repository.SubscriberRepository, dispatcher *service.Dispatcher, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	return &Bot{
		api:        api,
		campaign:   campaign,
		store:      store,
		repo:       repo,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
		stop:       make(chan struct{}),
	}, nil
}

// Username returns the authorized bot account name
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Start launches the update polling loop
func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-b.stop:
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				b.handleUpdate(update)
			}
		}
	}()

	b.log.WithField("username", b.Username()).Info("Telegram polling started")
}

// Stop terminates the polling loop
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
	close(b.stop)
	b.wg.Wait()
	b.log.Info("Telegram polling stopped")
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.handleStart(msg)
		case "history":
			b.handleHistory(msg.Chat.ID)
		case "help":
			b.reply(msg.Chat.ID, helpText)
		}
		return
	}

	// The catch-up command has a Cyrillic spelling Telegram cannot register
	// as a command; accept it as a plain message.
	if strings.EqualFold(strings.TrimSpace(msg.Text), historyAlias) {
		b.handleHistory(msg.Chat.ID)
	}
}

// handleStart registers a first-contact user and sends the welcome message
// with the backstory button.
func (b *Bot) handleStart(msg *tgbotapi.Message) {
	ctx := context.Background()
	userID := domain.SubscriberID(msg.Chat.ID)

	existing, err := b.repo.Get(ctx, userID)
	if err != nil {
		b.log.WithError(err).WithField("user_id", userID).Error("Failed to look up subscriber")
	}
	if existing == nil && err == nil {
		sub := domain.NewSubscriber(userID, b.now(), b.campaign.CurrentDay(b.now()))
		if err := b.repo.Put(ctx, sub); err != nil {
			b.log.WithError(err).WithField("user_id", userID).Error("Failed to register subscriber")
		} else {
			b.log.WithField("user_id", userID).Info("Registered new user")
		}
	}

	welcome := tgbotapi.NewMessage(msg.Chat.ID, welcomeText)
	welcome.ParseMode = tgbotapi.ModeHTML
	welcome.ReplyMarkup = singleButtonKeyboard(backstoryButtonLabel, domain.Action{Kind: domain.ActionBackstory})
	if _, err := b.api.Send(welcome); err != nil {
		b.log.WithError(err).WithField("chat_id", msg.Chat.ID).Error("Failed to send welcome message")
	}
}

// handleHistory runs the on-demand catch-up flow
func (b *Bot) handleHistory(chatID int64) {
	plan := planCatchUp(b.campaign, b.now())
	b.reply(chatID, plan.notice)

	if !plan.deliver {
		return
	}

	b.dispatcher.Enqueue(service.Job{
		ChatID:   chatID,
		StartDay: plan.startDay,
		EndDay:   plan.endDay,
		DoneText: historyDoneText,
	})
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	action, err := domain.ParseAction(query.Data)
	if err != nil {
		// Malformed tokens are dropped silently; just clear the spinner
		b.log.WithError(err).WithField("data", query.Data).Warn("Ignoring malformed callback")
		b.answer(query.ID, "")
		return
	}

	// Telegram stops attaching the message to callbacks from very old
	// messages; without it there is no chat to act on.
	if query.Message == nil {
		b.answer(query.ID, "")
		return
	}

	switch action.Kind {
	case domain.ActionBackstory:
		b.handleBackstory(query)
	case domain.ActionSubscribe:
		b.handleSubscribe(query)
	case domain.ActionClue:
		b.handleClue(query, action.Day)
	case domain.ActionQuestion:
		b.answerAlert(query.ID, "❓ "+b.store.Question(action.Day))
	case domain.ActionText:
		b.handleText(query, action.Day)
	}
}

// handleBackstory strips the welcome button and sends the backstory with
// the subscribe button, as a photo when the illustration exists.
func (b *Bot) handleBackstory(query *tgbotapi.CallbackQuery) {
	b.stripKeyboard(query)
	b.answer(query.ID, "")

	keyboard := singleButtonKeyboard(subscribeButtonLabel, domain.Action{Kind: domain.ActionSubscribe})
	chatID := query.Message.Chat.ID

	if path := b.store.WelcomeImagePath(); path != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
		photo.Caption = backstoryText
		photo.ParseMode = tgbotapi.ModeHTML
		photo.ReplyMarkup = keyboard
		if _, err := b.api.Send(photo); err != nil {
			b.log.WithError(err).WithField("chat_id", chatID).Error("Failed to send backstory photo")
		}
		return
	}

	msg := tgbotapi.NewMessage(chatID, backstoryText)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).WithField("chat_id", chatID).Error("Failed to send backstory")
	}
}

// handleSubscribe opts the user in and backfills all past days when the
// campaign is already underway.
func (b *Bot) handleSubscribe(query *tgbotapi.CallbackQuery) {
	ctx := context.Background()
	chatID := query.Message.Chat.ID
	userID := domain.SubscriberID(chatID)

	switch err := b.repo.SetSubscribed(ctx, userID, true); {
	case errors.Is(err, repository.ErrUnknownSubscriber):
		// First contact may have happened before the registry existed;
		// register on the fly. A transient backend error must not take
		// this path or it would overwrite the existing record.
		sub := domain.NewSubscriber(userID, b.now(), b.campaign.CurrentDay(b.now()))
		sub.Subscribed = true
		if err := b.repo.Put(ctx, sub); err != nil {
			b.log.WithError(err).WithField("user_id", userID).Error("Failed to subscribe user")
			b.answer(query.ID, "")
			return
		}
	case err != nil:
		b.log.WithError(err).WithField("user_id", userID).Error("Failed to subscribe user")
		b.answer(query.ID, "")
		return
	}
	b.log.WithField("user_id", userID).Info("User subscribed")

	b.answerAlert(query.ID, subscribedAlertText)

	// Backfill only when there is at least one past day
	day := b.campaign.CurrentDay(b.now())
	if day <= 1 {
		return
	}

	edit := tgbotapi.NewEditMessageText(chatID, query.Message.MessageID, loadingHistoryText)
	if _, err := b.api.Send(edit); err != nil {
		b.log.WithError(err).WithField("chat_id", chatID).Error("Failed to edit subscribe message")
	}

	endDay := day - 1
	if b.campaign.Ended(b.now()) {
		endDay = b.campaign.TotalDays
	}
	b.dispatcher.Enqueue(service.Job{
		ChatID:   chatID,
		StartDay: 1,
		EndDay:   endDay,
		DoneText: backfillDoneText,
	})
}

// handleClue strips the originating keyboard (the button is single-use) and
// sends the clue as its own message.
func (b *Bot) handleClue(query *tgbotapi.CallbackQuery, day int) {
	b.stripKeyboard(query)
	b.answer(query.ID, "")
	b.reply(query.Message.Chat.ID, fmt.Sprintf("🔍 <b>Улика дня %d:</b>\n\n%s", day, b.store.Clue(day)))
}

func (b *Bot) handleText(query *tgbotapi.CallbackQuery, day int) {
	fragment, ok := b.store.TextFragment(day)
	if !ok {
		b.answerAlert(query.ID, fragmentMissingText)
		return
	}

	b.answer(query.ID, "")
	b.reply(query.Message.Chat.ID, fmt.Sprintf("📖 <b>Часть текста %d:</b>\n\n%s", day/3, fragment))
}

// SendEpisode implements service.Deliverer: photo with caption and action
// buttons, or a plain message when the day has no image.
func (b *Bot) SendEpisode(ctx context.Context, chatID int64, episode domain.Episode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	keyboard := episodeKeyboard(episode)

	if episode.ImagePath != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(episode.ImagePath))
		photo.Caption = episode.Caption
		photo.ParseMode = tgbotapi.ModeHTML
		photo.ReplyMarkup = keyboard
		if _, err := b.api.Send(photo); err != nil {
			return fmt.Errorf("send episode photo for day %d: %w", episode.Day, err)
		}
		return nil
	}

	msg := tgbotapi.NewMessage(chatID, episode.Caption)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send episode for day %d: %w", episode.Day, err)
	}
	return nil
}

// SendText implements service.Deliverer
func (b *Bot) SendText(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// reply sends an HTML message, logging instead of returning transport errors
func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
	}
}

// answer acknowledges a callback with an optional toast
func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.log.WithError(err).Error("Failed to answer callback")
	}
}

// answerAlert acknowledges a callback with a popup alert
func (b *Bot) answerAlert(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(callbackID, text)); err != nil {
		b.log.WithError(err).Error("Failed to answer callback with alert")
	}
}

// stripKeyboard removes the inline keyboard from the callback's message
func (b *Bot) stripKeyboard(query *tgbotapi.CallbackQuery) {
	edit := tgbotapi.NewEditMessageReplyMarkup(query.Message.Chat.ID, query.Message.MessageID, emptyKeyboard)
	if _, err := b.api.Send(edit); err != nil {
		b.log.WithError(err).WithField("chat_id", query.Message.Chat.ID).Error("Failed to strip keyboard")
	}
}
