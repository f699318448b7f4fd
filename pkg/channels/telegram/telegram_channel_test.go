package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionForUserMessage(t *testing.T) {
	msg := &tgbotapi.Message{
		Text: "hello",
		From: &tgbotapi.User{ID: 42, UserName: "alice"},
		Chat: &tgbotapi.Chat{ID: -100},
	}

	session, ok := sessionFor(msg)
	require.True(t, ok)
	assert.Equal(t, "telegram", session.ChannelID)
	assert.Equal(t, "42", session.UserID)
	assert.Equal(t, "-100", session.ChatID)
	assert.Equal(t, "alice", session.Username)
}

func TestSessionForSenderlessUpdate(t *testing.T) {
	// Channel posts and service messages carry no From.
	msg := &tgbotapi.Message{
		Text: "broadcast",
		Chat: &tgbotapi.Chat{ID: -100},
	}

	_, ok := sessionFor(msg)
	assert.False(t, ok)
}

func TestSessionForNonTextUpdate(t *testing.T) {
	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: 42},
		Chat: &tgbotapi.Chat{ID: -100},
	}

	_, ok := sessionFor(msg)
	assert.False(t, ok)

	_, ok = sessionFor(nil)
	assert.False(t, ok)
}
