package openhab

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atomicstack/sitemap-panel/internal/sitemap"
)

// MessageKind classifies an event-stream message.
type MessageKind int

const (
	MessageUnknown MessageKind = iota
	MessageWidget
	MessageAlive
	MessageSitemapChanged
)

func (k MessageKind) String() string {
	switch k {
	case MessageWidget:
		return "widget"
	case MessageAlive:
		return "alive"
	case MessageSitemapChanged:
		return "sitemap-changed"
	default:
		return "unknown"
	}
}

// Message is one decoded event-stream payload.
type Message struct {
	Kind  MessageKind
	Patch sitemap.Patch
	Type  string
}

var errEmptyMessage = errors.New("empty message")

// ParseMessage decodes a data payload. Payloads with a widgetId are widget
// patches; payloads with TYPE are control messages.
func ParseMessage(data []byte) (Message, error) {
	if len(data) == 0 {
		return Message{}, errEmptyMessage
	}
	var probe struct {
		WidgetID *string `json:"widgetId"`
		Type     string  `json:"TYPE"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	if probe.WidgetID != nil {
		var patch sitemap.Patch
		if err := json.Unmarshal(data, &patch); err != nil {
			return Message{}, fmt.Errorf("decode widget message: %w", err)
		}
		return Message{Kind: MessageWidget, Patch: patch}, nil
	}
	switch probe.Type {
	case "ALIVE":
		return Message{Kind: MessageAlive, Type: probe.Type}, nil
	case "SITEMAP_CHANGED":
		return Message{Kind: MessageSitemapChanged, Type: probe.Type}, nil
	default:
		return Message{Kind: MessageUnknown, Type: probe.Type}, nil
	}
}
