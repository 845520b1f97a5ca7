package notifier

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

type TelegramConfig struct {
	BotToken string        `envconfig:"TELEGRAM_BOT_TOKEN" json:"-"`
	ChatID   string        `envconfig:"TELEGRAM_CHAT_ID"`
	APIURL   string        `envconfig:"TELEGRAM_API_URL" default:"https://api.telegram.org"`
	Timeout  time.Duration `envconfig:"TELEGRAM_TIMEOUT" default:"10s"`
}

func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != ""
}

// Telegram posts messages to a chat or a public channel (@name) through the Bot API.
type Telegram struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	channel string
}

// NewTelegram authenticates the bot with getMe before returning.
func NewTelegram(cfg TelegramConfig) (*Telegram, error) {
	t := &Telegram{}
	if strings.HasPrefix(cfg.ChatID, "@") {
		t.channel = cfg.ChatID
	} else {
		id, err := strconv.ParseInt(cfg.ChatID, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "telegram chat id %q", cfg.ChatID)
		}
		t.chatID = id
	}

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken,
		strings.TrimSuffix(cfg.APIURL, "/")+"/bot%s/%s",
		&http.Client{Timeout: cfg.Timeout})
	if err != nil {
		return nil, errors.Wrap(err, "tgbotapi.NewBotAPIWithClient")
	}
	t.bot = bot
	return t, nil
}

func (t *Telegram) message(text string) tgbotapi.MessageConfig {
	if t.channel != "" {
		return tgbotapi.NewMessageToChannel(t.channel, text)
	}
	return tgbotapi.NewMessage(t.chatID, text)
}

func (t *Telegram) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.bot.Send(t.message(text)); err != nil {
		return errors.Wrap(err, "telegram sendMessage")
	}
	return nil
}
