package relay

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/tasklane/internal/server/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func TestTelegramRelay_SendsHTMLMessageToChat(t *testing.T) {
	fs := &fakeSender{}
	r := &TelegramRelay{bot: fs, chatID: -100123}

	err := r.Relay(context.Background(), &models.ContactMessage{
		UserID: "u1", Name: "Uma", Email: "uma@example.com", Message: "hi <there>",
	})
	require.NoError(t, err)
	require.Len(t, fs.sent, 1)

	msg, ok := fs.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(-100123), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "hi &lt;there&gt;")
	assert.Contains(t, msg.Text, "uma@example.com")
}

func TestTelegramRelay_PropagatesSendError(t *testing.T) {
	r := &TelegramRelay{bot: &fakeSender{err: errors.New("chat not found")}, chatID: 1}

	err := r.Relay(context.Background(), &models.ContactMessage{Message: "x"})
	assert.ErrorContains(t, err, "chat not found")
}

func TestTelegramRelay_CanceledContext(t *testing.T) {
	fs := &fakeSender{}
	r := &TelegramRelay{bot: fs, chatID: 1}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, r.Relay(ctx, &models.ContactMessage{}), context.Canceled)
	assert.Empty(t, fs.sent)
}

func TestFormat_EscapesFields(t *testing.T) {
	text := Format(&models.ContactMessage{Name: "<b>x</b>", Email: "a&b@x", Message: "m"})
	assert.Contains(t, text, "&lt;b&gt;x&lt;/b&gt;")
	assert.Contains(t, text, "a&amp;b@x")
	assert.NotContains(t, text, "User ID")
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Relay(context.Background(), &models.ContactMessage{}))
}
