package bot

import (
	"fmt"
	"log/slog"
	"sync"

	"doge_heroes/internal/game"
	"doge_heroes/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// NotifyBot sends progression notifications to players via Telegram and
// answers /start with a short greeting.
type NotifyBot struct {
	bot    *tgbotapi.BotAPI
	stopCh chan struct{}
	wg     sync.WaitGroup
	log    *slog.Logger
}

// NewNotifyBot creates a new notification bot
func NewNotifyBot(token string) (*NotifyBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log := logger.With("component", "notify_bot")
	log.Info("notify bot authorized", "username", bot.Self.UserName)

	return &NotifyBot{
		bot:    bot,
		stopCh: make(chan struct{}),
		log:    log,
	}, nil
}

// Start starts listening for commands
func (b *NotifyBot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)
	b.log.Info("starting bot update loop")

	for {
		select {
		case <-b.stopCh:
			b.log.Info("stopping bot update loop")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}

			if update.Message.Command() == "start" {
				msg := tgbotapi.NewMessage(update.Message.Chat.ID,
					"Добро пожаловать в Doge Heroes! Открой веб-приложение, чтобы собирать героев.")
				if _, err := b.bot.Send(msg); err != nil {
					b.log.Warn("failed to send start reply", "error", err)
				}
			}
		}
	}
}

// Stop stops the bot
func (b *NotifyBot) Stop() {
	close(b.stopCh)
	b.bot.StopReceivingUpdates()
	b.wg.Wait()
}

// NotifyMilestone sends a congratulation message for a crossed donation
// milestone. Errors only cost the message.
func (b *NotifyBot) NotifyMilestone(userID int64, ev game.MilestoneEvent) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		text := fmt.Sprintf("🎉 Порог в %d TON достигнут! Новый герой: %s (%s)",
			ev.Milestone, ev.Character.Name, ev.Character.Rarity)
		msg := tgbotapi.NewMessage(userID, text)

		if _, err := b.bot.Send(msg); err != nil {
			b.log.Warn("failed to send milestone notification", "user_id", userID, "error", err)
		}
	}()
}
