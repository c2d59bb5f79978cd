package chat

import (
	"context"

	"github.com/networkup/netup/pkg/model"
)

// Backend is the slice of the REST API the sync client needs. *api.Client
// satisfies it.
type Backend interface {
	Conversations(ctx context.Context, userID int64) ([]model.Conversation, error)
	Messages(ctx context.Context, conversationID int64) ([]model.Message, error)
	SendMessage(ctx context.Context, conversationID int64, body string) error
	MarkRead(ctx context.Context, conversationID int64) error
	Typing(ctx context.Context, conversationID int64, userName string) error
	CreateConversation(ctx context.Context, otherUserID int64, kind model.ConversationKind) (model.Conversation, error)
	SearchUsers(ctx context.Context, term string) ([]model.User, error)
}

// Channel is one realtime topic with named-event handlers.
type Channel interface {
	Bind(event string, fn func(data []byte))
}

// Subscriber hands out realtime channels. The sync client holds at most one
// subscription at a time and owns all transitions.
type Subscriber interface {
	Subscribe(topic string) Channel
	Unsubscribe(topic string)
}

type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// Renderer is the set of hooks the host UI plugs into. Hooks may be called
// from network and timer goroutines and must be safe to invoke from any of
// them.
type Renderer interface {
	// RenderConversations replaces the directory listing. A nil slice is
	// the recoverable empty/error state.
	RenderConversations(convs []model.Conversation)

	// RenderHistory replaces the message pane with a conversation's
	// history, oldest first.
	RenderHistory(msgs []model.Message)

	// AppendMessage adds one message at the bottom.
	AppendMessage(msg model.Message)

	// UpdateDelivery moves a locally rendered echo through the send
	// pipeline states.
	UpdateDelivery(localID int64, state model.DeliveryState)

	// MarkSentRead flags the user's sent messages as read by the other
	// side.
	MarkSentRead()

	ShowTyping(name string)
	ClearTyping()

	// Notify surfaces a non-blocking notice; it must never panic or block.
	Notify(kind NoticeKind, text string)
}
