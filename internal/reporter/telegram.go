package reporter

import (
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-careersfeed-automation/internal/config"
	"go-careersfeed-automation/internal/scraper"
)

// TelegramReporter announces new postings and run failures in a Telegram
// chat. Send failures are the caller's to log, a broken notifier must never
// fail the pipeline itself.
type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(cfg config.TelegramConfig) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{
		bot:    bot,
		chatID: cfg.ChatID,
	}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML" //use HTML for bold/italic
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramReporter) SendJob(job scraper.Job) error {
	text := fmt.Sprintf("🔥 <b>%s</b>\n", html.EscapeString(job.Title))
	if job.Location != "" {
		text += fmt.Sprintf("📍 %s\n", html.EscapeString(job.Location))
	}
	if job.Department != "" {
		text += fmt.Sprintf("🏢 %s\n", html.EscapeString(job.Department))
	}
	text += fmt.Sprintf("🔗 <a href=\"%s\">Apply Now</a>", job.Link)
	return t.SendMessage(text)
}

func (t *TelegramReporter) SendStatus(message string) error {
	return t.SendMessage("ℹ️ " + html.EscapeString(message))
}

func (t *TelegramReporter) SendError(errReq error) error {
	text := fmt.Sprintf("⚠️ <b>Careers Feed Error</b>:\n%s", html.EscapeString(errReq.Error()))
	return t.SendMessage(text)
}
