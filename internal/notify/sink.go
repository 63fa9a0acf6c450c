package notify

import "context"

// Field is one labeled value in a notification.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Message is the structured content of a notification. The core only
// supplies data; each sink decides how to render it for its platform.
type Message struct {
	Kind   string  `json:"kind"`
	Fields []Field `json:"fields"`
}

// Destination identifies where a notification should be delivered.
// Sinks interpret the parts they understand and ignore the rest.
type Destination struct {
	ChannelID string `json:"channel_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

// Sink delivers a rendered message to a destination.
type Sink interface {
	Notify(ctx context.Context, dest Destination, msg Message) error
}
