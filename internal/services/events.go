package services

import (
	"time"

	"github.com/MackG7/TP-Final-Integrador-Back-End/internal/models"
)

// MessageEvent is emitted after a message has been committed. Realtime
// delivery (sockets, pub/sub) subscribes to this; the core knows nothing
// about socket or session state.
type MessageEvent struct {
	ConversationID string         `json:"conversationId"`
	Message        models.Message `json:"message"`
	SentAt         time.Time      `json:"sentAt"`
}

var messageSubscribers []func(MessageEvent)

// SubscribeMessages registers a post-commit handler for sent messages.
// Registration happens once at startup, before the server accepts traffic.
func SubscribeMessages(fn func(MessageEvent)) {
	messageSubscribers = append(messageSubscribers, fn)
}

func publishMessageSent(ev MessageEvent) {
	for _, fn := range messageSubscribers {
		go fn(ev)
	}
}
