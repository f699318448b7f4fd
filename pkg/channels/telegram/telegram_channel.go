// Package telegram implements the gateway.Channel contract over the
// Telegram Bot API using long polling.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ricky/pkg/api"
)

// TelegramConfig encapsulates the credentials required to authenticate with
// the Telegram Bot API.
type TelegramConfig struct {
	Token string `json:"token"` // The secret BOT API string provided by @BotFather
}

// TelegramChannel is the production implementation of gateway.Channel for
// the Telegram platform.
type TelegramChannel struct {
	config       TelegramConfig
	bot          *tgbotapi.BotAPI
	messageLimit int                // Maximum character count per single message bubble
	stopCtx      context.Context    // Context used to abort the long-polling HTTP request
	stopCancel   context.CancelFunc // Function to trigger the abort
}

// NewTelegramChannel authenticates with the Bot API. The dedicated HTTP
// client ties its dials to stopCtx so an active long poll aborts instantly
// on Stop, avoiding a 409 Conflict when a new instance takes over.
func NewTelegramChannel(cfg TelegramConfig, msgLimit int) (api.Channel, error) {
	ctx, cancel := context.WithCancel(context.Background())

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	botHttpClient := &http.Client{
		Timeout: 90 * time.Second,
		Transport: &http.Transport{
			DialContext: func(dialCtx context.Context, network, addr string) (net.Conn, error) {
				mergedCtx, mergedCancel := context.WithCancel(dialCtx)
				go func() {
					select {
					case <-ctx.Done():
						mergedCancel()
					case <-mergedCtx.Done():
					}
				}()
				return dialer.DialContext(mergedCtx, network, addr)
			},
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, tgbotapi.APIEndpoint, botHttpClient)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	slog.Info("Telegram bot authorized", "username", bot.Self.UserName)

	return &TelegramChannel{
		config:       cfg,
		bot:          bot,
		messageLimit: msgLimit,
		stopCtx:      ctx,
		stopCancel:   cancel,
	}, nil
}

// ID returns the unique platform identifier "telegram".
func (t *TelegramChannel) ID() string {
	return "telegram"
}

// sessionFor builds the session context for one inbound update. Channel
// posts and service messages carry no sender (From is nil); those and
// non-text updates are skipped.
func sessionFor(msg *tgbotapi.Message) (api.SessionContext, bool) {
	if msg == nil || msg.From == nil || msg.Text == "" {
		return api.SessionContext{}, false
	}
	return api.SessionContext{
		ChannelID: "telegram",
		UserID:    strconv.FormatInt(msg.From.ID, 10),
		ChatID:    strconv.FormatInt(msg.Chat.ID, 10),
		Username:  msg.From.UserName,
	}, true
}

// Start runs the long-polling update loop in a background goroutine,
// mapping text updates into UnifiedMessages. Non-text updates are ignored.
func (t *TelegramChannel) Start(ctx api.ChannelContext) error {
	offset := 0

	go func() {
		for {
			select {
			case <-t.stopCtx.Done():
				return
			default:
			}

			reqConfig := tgbotapi.NewUpdate(offset)
			reqConfig.Timeout = 60

			// Native GetUpdates instead of GetUpdatesChan so the offset stays
			// under our control and the loop can exit on stopCtx.
			updates, err := t.bot.GetUpdates(reqConfig)
			if err != nil {
				select {
				case <-t.stopCtx.Done():
					return
				default:
					slog.Debug("Failed to get telegram updates", "error", err)
					time.Sleep(3 * time.Second)
					continue
				}
			}

			for _, update := range updates {
				if update.UpdateID < offset {
					continue
				}
				offset = update.UpdateID + 1

				session, ok := sessionFor(update.Message)
				if !ok {
					continue
				}

				ctx.OnMessage(t.ID(), &api.UnifiedMessage{
					Session: session,
					Content: update.Message.Text,
				})
			}
		}
	}()

	return nil
}

func (t *TelegramChannel) Stop() error {
	t.stopCancel()

	// Clear the connection pool; active long polls die via the dial context.
	if httpClient, ok := t.bot.Client.(*http.Client); ok && httpClient != nil {
		if transport, ok := httpClient.Transport.(*http.Transport); ok {
			transport.CloseIdleConnections()
		}
	}

	return nil
}

// SendSignal implements the gateway.SignalingChannel interface. The
// "thinking" signal maps to Telegram's typing indicator.
func (t *TelegramChannel) SendSignal(session api.SessionContext, signal string) error {
	if signal != "thinking" {
		return nil
	}
	chatID, err := strconv.ParseInt(session.ChatID, 10, 64)
	if err != nil {
		return err
	}
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	_, err = t.bot.Send(action)
	return err
}

func (t *TelegramChannel) Send(session api.SessionContext, message string) error {
	// Telegram Chat ID must be int64
	chatID, err := strconv.ParseInt(session.ChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id for telegram: %s", session.ChatID)
	}

	msgRunes := []rune(message)
	totalLen := len(msgRunes)

	if totalLen <= t.messageLimit {
		msg := tgbotapi.NewMessage(chatID, message)
		if _, err := t.bot.Send(msg); err != nil {
			return fmt.Errorf("telegram send failed: %w", err)
		}
		return nil
	}

	// Send long message in chunks
	for i := 0; i < totalLen; i += t.messageLimit {
		end := i + t.messageLimit
		if end > totalLen {
			end = totalLen
		}
		chunk := string(msgRunes[i:end])
		msg := tgbotapi.NewMessage(chatID, chunk)
		if _, err := t.bot.Send(msg); err != nil {
			return fmt.Errorf("telegram send chunk failed at index %d: %w", i, err)
		}
	}

	return nil
}

// Stream implements the streaming response protocol for Telegram. Telegram
// has no mid-message updates, so fragments accumulate and flush as one
// bubble when the stream ends.
func (t *TelegramChannel) Stream(session api.SessionContext, fragments <-chan string) error {
	var buf strings.Builder
	for fragment := range fragments {
		buf.WriteString(fragment)
	}

	if buf.Len() == 0 {
		return nil
	}
	return t.Send(session, buf.String())
}
