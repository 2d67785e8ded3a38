// Package relay forwards contact-form messages to an operator channel.
package relay

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/dmitrijs2005/tasklane/internal/server/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Relay delivers a stored contact message somewhere a human will read it.
type Relay interface {
	Relay(ctx context.Context, msg *models.ContactMessage) error
}

// Noop drops every message. Used when no operator channel is configured.
type Noop struct{}

func (Noop) Relay(context.Context, *models.ContactMessage) error { return nil }

// sender is the part of *tgbotapi.BotAPI the relay needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramRelay posts contact messages to one Telegram chat.
type TelegramRelay struct {
	bot    sender
	chatID int64
}

// NewTelegramRelay authorizes the bot token with the Telegram API.
func NewTelegramRelay(token string, chatID int64) (*TelegramRelay, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &TelegramRelay{bot: api, chatID: chatID}, nil
}

func (r *TelegramRelay) Relay(ctx context.Context, msg *models.ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out := tgbotapi.NewMessage(r.chatID, Format(msg))
	out.ParseMode = tgbotapi.ModeHTML
	out.DisableWebPagePreview = true

	if _, err := r.bot.Send(out); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// Format renders msg as Telegram HTML with every user field escaped.
func Format(msg *models.ContactMessage) string {
	var b strings.Builder
	b.WriteString("📨 <b>New contact message</b>\n")
	fmt.Fprintf(&b, "<b>From:</b> %s &lt;%s&gt;\n", html.EscapeString(msg.Name), html.EscapeString(msg.Email))
	if msg.UserID != "" {
		fmt.Fprintf(&b, "<b>User ID:</b> <code>%s</code>\n", html.EscapeString(msg.UserID))
	}
	b.WriteString("\n")
	b.WriteString(html.EscapeString(msg.Message))
	return b.String()
}
