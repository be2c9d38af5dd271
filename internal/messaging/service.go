// Package messaging defines the pluggable message delivery abstraction and
// its channel implementations.
//
// Channel adapters receive inbound messages, hand them to the routing
// engine, and render RoutingResults back into platform messages.
package messaging

import (
	"context"
	"errors"
	"regexp"
	"time"
)

// Constants for channel service configuration
const (
	// DefaultChannelBufferSize defines the buffer size for inbound channels
	DefaultChannelBufferSize = 100
	// DefaultChannelTimeout bounds non-blocking channel operations
	DefaultChannelTimeout = 1 * time.Second
)

// ErrServiceStopped is returned when a send is attempted after Stop.
var ErrServiceStopped = errors.New("messaging service stopped")

// phoneNumberRegex strips non-numeric characters during canonicalization.
var phoneNumberRegex = regexp.MustCompile(`[^0-9]`)

// Inbound is one incoming user message from any channel.
type Inbound struct {
	From    string // canonical user id on the channel
	Channel string // "whatsapp", "twilio", "telegram"
	Body    string
	Time    int64
}

// Service defines a pluggable message delivery abstraction.
type Service interface {
	// ValidateAndCanonicalizeRecipient validates and canonicalizes a
	// recipient identifier per the channel's rules.
	ValidateAndCanonicalizeRecipient(recipient string) (string, error)

	// SendMessage sends a plain text message to a recipient.
	SendMessage(ctx context.Context, to string, body string) error

	// Start begins background processing (e.g., event polling).
	Start(ctx context.Context) error

	// Stop stops background processing and cleans up resources.
	Stop() error

	// Inbound returns a channel of incoming user messages.
	Inbound() <-chan Inbound
}
