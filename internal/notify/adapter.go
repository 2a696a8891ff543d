// Package notify delivers Fleetyard inspection and work-order events to
// chat platforms (Slack, Discord) through a pluggable adapter.
package notify

import "context"

// Adapter is the interface that platform-specific implementations must
// satisfy. Each adapter handles connection management and message posting
// for a single chat platform.
type Adapter interface {
	// Connect establishes a connection to the chat platform.
	Connect(ctx context.Context) error

	// Send delivers an outbound message to the platform.
	Send(ctx context.Context, msg OutboundMessage) error

	// Close gracefully shuts down the adapter connection.
	Close() error
}

// OutboundMessage represents a message to be sent to the chat platform.
type OutboundMessage struct {
	ChannelID string // target channel
	Text      string // plain text fallback
	Event     *Event // structured event attachment, if any
}

// Event represents a Fleetyard event formatted for display in chat.
type Event struct {
	Title    string  // event headline (e.g. "Inspection insp-4af21 completed")
	Body     string  // detail text
	Severity string  // "info", "warning", "error", "success"
	Color    string  // sidebar color hint (e.g. "#36a64f" for success)
	Fields   []Field // key-value metadata pairs
}

// Field is a key-value pair displayed in an event attachment.
type Field struct {
	Name  string
	Value string
	Short bool // hint: render side-by-side with another field
}
