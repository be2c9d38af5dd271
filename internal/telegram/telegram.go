// Package telegram wraps the Telegram Bot API as a messaging channel.
//
// Inbound text arrives via long polling. Menus are delivered as inline
// keyboards; button presses come back as callback queries carrying the
// option ID, which feeds the router the same way typed input does.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/BTreeMap/CareRoute/internal/messaging"
	"github.com/BTreeMap/CareRoute/internal/models"
)

const (
	// DefaultUpdateTimeout is the long-polling timeout in seconds.
	DefaultUpdateTimeout = 30
	// menuButtonsPerRow controls inline keyboard layout.
	menuButtonsPerRow = 2
)

// Opts holds configuration options for the Telegram service.
type Opts struct {
	Token         string
	UpdateTimeout int
}

// Option defines a configuration option for the Telegram service.
type Option func(*Opts)

// WithToken sets the bot token.
func WithToken(token string) Option {
	return func(o *Opts) { o.Token = token }
}

// WithUpdateTimeout sets the long-polling timeout in seconds.
func WithUpdateTimeout(seconds int) Option {
	return func(o *Opts) { o.UpdateTimeout = seconds }
}

// Service implements messaging.Service for Telegram.
type Service struct {
	bot           *tgbotapi.BotAPI
	updateTimeout int
	inbound       chan messaging.Inbound
	done          chan struct{}
	mu            sync.RWMutex
	stopped       bool
}

// NewService creates a Telegram service, connecting to the Bot API.
func NewService(opts ...Option) (*Service, error) {
	cfg := Opts{UpdateTimeout: DefaultUpdateTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram bot token must be provided")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	slog.Info("Telegram bot authorized", "username", bot.Self.UserName)

	return &Service{
		bot:           bot,
		updateTimeout: cfg.UpdateTimeout,
		inbound:       make(chan messaging.Inbound, messaging.DefaultChannelBufferSize),
		done:          make(chan struct{}),
	}, nil
}

// ValidateAndCanonicalizeRecipient requires a numeric Telegram chat ID.
func (s *Service) ValidateAndCanonicalizeRecipient(recipient string) (string, error) {
	if recipient == "" {
		return "", fmt.Errorf("recipient cannot be empty")
	}
	if _, err := strconv.ParseInt(recipient, 10, 64); err != nil {
		return "", fmt.Errorf("invalid Telegram chat ID %q: %w", recipient, err)
	}
	return recipient, nil
}

// Start begins long polling for updates.
func (s *Service) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = s.updateTimeout
	updates := s.bot.GetUpdatesChan(updateConfig)

	go s.pollUpdates(ctx, updates)
	slog.Debug("Telegram update polling started", "timeout_seconds", s.updateTimeout)
	return nil
}

// Stop stops polling. The inbound channel closes after a short grace
// period so in-flight update handlers can finish.
func (s *Service) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.mu.Unlock()

	slog.Info("Telegram service stopping")
	s.bot.StopReceivingUpdates()
	close(s.done)
	go func() {
		time.Sleep(50 * time.Millisecond)
		close(s.inbound)
	}()
	return nil
}

// SendMessage sends a plain text message to the given chat.
func (s *Service) SendMessage(ctx context.Context, to string, body string) error {
	chatID, err := s.chatID(to)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, body)
	if _, err := s.bot.Send(msg); err != nil {
		slog.Error("Telegram SendMessage failed", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to send message to %s: %w", to, err)
	}
	slog.Debug("Telegram message sent", "chat_id", chatID, "body_length", len(body))
	return nil
}

// SendResult delivers a routing result, rendering menus as inline keyboards
// and everything else as plain text.
func (s *Service) SendResult(ctx context.Context, to string, result models.RoutingResult) error {
	if result.Kind != models.KindMenu || result.Menu == nil {
		return s.SendMessage(ctx, to, messaging.RenderText(result))
	}

	chatID, err := s.chatID(to)
	if err != nil {
		return err
	}

	text := result.Menu.Prompt
	if result.Text != "" {
		text = result.Text + "\n\n" + text
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = buildMenuKeyboard(result.Menu)

	if _, err := s.bot.Send(msg); err != nil {
		slog.Error("Telegram SendResult failed", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to send menu to %s: %w", to, err)
	}
	return nil
}

// Inbound returns the channel of incoming user messages.
func (s *Service) Inbound() <-chan messaging.Inbound {
	return s.inbound
}

func (s *Service) chatID(to string) (int64, error) {
	canonical, err := s.ValidateAndCanonicalizeRecipient(to)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(canonical, 10, 64)
}

// buildMenuKeyboard lays out menu options in rows of two. The callback data
// carries the option ID so a button press routes like typed input.
func buildMenuKeyboard(menu *models.MenuPayload) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, opt := range menu.Options {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(opt.Title, opt.ID))
		if len(row) == menuButtonsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (s *Service) pollUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			slog.Debug("Telegram pollUpdates stopping due to context cancellation")
			return
		case <-s.done:
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			s.handleUpdate(update)
		}
	}
}

func (s *Service) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		s.handleCallback(update.CallbackQuery)
	case update.Message != nil && update.Message.Text != "":
		s.emit(messaging.Inbound{
			From:    strconv.FormatInt(update.Message.Chat.ID, 10),
			Channel: "telegram",
			Body:    update.Message.Text,
			Time:    int64(update.Message.Date),
		})
	default:
		slog.Debug("Telegram ignoring non-text update", "update_id", update.UpdateID)
	}
}

// handleCallback acknowledges the button press and forwards the option ID
// as the user's input.
func (s *Service) handleCallback(query *tgbotapi.CallbackQuery) {
	callback := tgbotapi.NewCallback(query.ID, "")
	if _, err := s.bot.Request(callback); err != nil {
		slog.Warn("Telegram callback ack failed", "error", err)
	}
	if query.Message == nil || query.Data == "" {
		return
	}
	s.emit(messaging.Inbound{
		From:    strconv.FormatInt(query.Message.Chat.ID, 10),
		Channel: "telegram",
		Body:    query.Data,
		Time:    time.Now().Unix(),
	})
}

func (s *Service) emit(in messaging.Inbound) {
	s.mu.RLock()
	stopped := s.stopped
	s.mu.RUnlock()
	if stopped {
		slog.Warn("Telegram dropping inbound message (service stopped)", "from", in.From)
		return
	}

	select {
	case <-s.done:
		slog.Warn("Telegram dropping inbound message (service stopped)", "from", in.From)
	case s.inbound <- in:
		slog.Debug("Telegram inbound message forwarded", "from", in.From)
	case <-time.After(messaging.DefaultChannelTimeout):
		slog.Warn("Telegram inbound channel blocked, dropping message", "from", in.From)
	}
}
