package messaging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/BTreeMap/CareRoute/internal/twiliowhatsapp"
)

func TestTwilioServiceSendMessage(t *testing.T) {
	mock := twiliowhatsapp.NewMockClient()
	service := NewTwilioService(mock)

	if err := service.SendMessage(context.Background(), "+5215512345678", "hola"); err != nil {
		t.Fatalf("SendMessage error: %v", err)
	}
	if len(mock.SentMessages) != 1 {
		t.Fatalf("expected 1 sent message, got %d", len(mock.SentMessages))
	}
	if mock.SentMessages[0].To != "5215512345678" {
		t.Errorf("expected canonicalized recipient, got %q", mock.SentMessages[0].To)
	}
}

func TestTwilioServiceSendAfterStop(t *testing.T) {
	service := NewTwilioService(twiliowhatsapp.NewMockClient())
	if err := service.Stop(); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if err := service.SendMessage(context.Background(), "+5215512345678", "hola"); err != ErrServiceStopped {
		t.Errorf("expected ErrServiceStopped, got %v", err)
	}
	// Stop is idempotent
	if err := service.Stop(); err != nil {
		t.Errorf("second Stop error: %v", err)
	}
}

func TestTwilioWebhookEmitsInbound(t *testing.T) {
	service := NewTwilioService(twiliowhatsapp.NewMockClient())

	form := url.Values{}
	form.Set("From", "whatsapp:+5215512345678")
	form.Set("Body", "hola")
	req := httptest.NewRequest(http.MethodPost, "/webhooks/twilio", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	service.WebhookHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	select {
	case in := <-service.Inbound():
		if in.From != "whatsapp:+5215512345678" {
			t.Errorf("unexpected From %q", in.From)
		}
		if in.Channel != "twilio" {
			t.Errorf("unexpected Channel %q", in.Channel)
		}
		if in.Body != "hola" {
			t.Errorf("unexpected Body %q", in.Body)
		}
	case <-time.After(time.Second):
		t.Fatal("no inbound message emitted")
	}
}

func TestTwilioWebhookRejectsMissingFields(t *testing.T) {
	service := NewTwilioService(twiliowhatsapp.NewMockClient())

	form := url.Values{}
	form.Set("From", "whatsapp:+5215512345678")
	req := httptest.NewRequest(http.MethodPost, "/webhooks/twilio", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	service.WebhookHandler(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
