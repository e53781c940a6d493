package reporter

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramLimit is Telegram's maximum message length.
const telegramLimit = 4096

type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(token string, chatID int64) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{
		bot:    bot,
		chatID: chatID,
	}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML"
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramReporter) SendStatus(message string) error {
	return t.SendMessage(formatStatus(message))
}

func (t *TelegramReporter) SendError(errReq error) error {
	return t.SendMessage(fmt.Sprintf("⚠️ <b>Harvest Error</b>:\n%s", html.EscapeString(errReq.Error())))
}

func formatStatus(message string) string {
	text := "ℹ️ <pre>" + html.EscapeString(message) + "</pre>"
	if len(text) <= telegramLimit {
		return text
	}
	// trim the body, keep the closing tag
	keep := telegramLimit - len("ℹ️ <pre>…</pre>")
	escaped := html.EscapeString(message)
	if keep >= len(escaped) {
		return "ℹ️ <pre>" + escaped + "</pre>"
	}
	// never split a rune or an entity such as &amp;
	for keep > 0 && !utf8.RuneStart(escaped[keep]) {
		keep--
	}
	cut := escaped[:keep]
	if amp := strings.LastIndexByte(cut, '&'); amp >= 0 && !strings.Contains(cut[amp:], ";") {
		cut = cut[:amp]
	}
	return "ℹ️ <pre>" + cut + "…</pre>"
}
