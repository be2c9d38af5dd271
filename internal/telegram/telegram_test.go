package telegram

import (
	"testing"

	"github.com/BTreeMap/CareRoute/internal/messaging"
	"github.com/BTreeMap/CareRoute/internal/models"
)

func TestBuildMenuKeyboardLayout(t *testing.T) {
	menu := &models.MenuPayload{
		PageID: "mainMenu",
		Prompt: "¿En qué te podemos ayudar?",
		Options: []models.MenuOption{
			{ID: "APPOINTMENTS", Title: "Citas"},
			{ID: "MEASUREMENTS", Title: "Mediciones"},
			{ID: "INVOICES", Title: "Facturas"},
			{ID: "QUESTIONS", Title: "Preguntas"},
			{ID: "HELP", Title: "Ayuda"},
		},
	}

	markup := buildMenuKeyboard(menu)
	if len(markup.InlineKeyboard) != 3 {
		t.Fatalf("expected 3 rows for 5 options, got %d", len(markup.InlineKeyboard))
	}
	if len(markup.InlineKeyboard[0]) != 2 || len(markup.InlineKeyboard[1]) != 2 || len(markup.InlineKeyboard[2]) != 1 {
		t.Errorf("expected rows of 2,2,1, got %d,%d,%d",
			len(markup.InlineKeyboard[0]), len(markup.InlineKeyboard[1]), len(markup.InlineKeyboard[2]))
	}

	first := markup.InlineKeyboard[0][0]
	if first.Text != "Citas" {
		t.Errorf("expected button text from option title, got %q", first.Text)
	}
	if first.CallbackData == nil || *first.CallbackData != "APPOINTMENTS" {
		t.Errorf("expected callback data carrying option ID, got %v", first.CallbackData)
	}
}

func TestEmitAfterStopDropsMessage(t *testing.T) {
	s := &Service{
		inbound: make(chan messaging.Inbound, 1),
		done:    make(chan struct{}),
	}
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	close(s.done)
	close(s.inbound)

	// A late update handler must drop the message instead of panicking on
	// a send to the closed channel.
	s.emit(messaging.Inbound{From: "12345", Channel: "telegram", Body: "hola"})
}

func TestValidateAndCanonicalizeRecipient(t *testing.T) {
	s := &Service{}

	if _, err := s.ValidateAndCanonicalizeRecipient(""); err == nil {
		t.Error("expected error for empty recipient")
	}
	if _, err := s.ValidateAndCanonicalizeRecipient("not-a-chat-id"); err == nil {
		t.Error("expected error for non-numeric recipient")
	}
	got, err := s.ValidateAndCanonicalizeRecipient("-1001234567890")
	if err != nil {
		t.Fatalf("unexpected error for group chat ID: %v", err)
	}
	if got != "-1001234567890" {
		t.Errorf("expected chat ID passthrough, got %q", got)
	}
}
