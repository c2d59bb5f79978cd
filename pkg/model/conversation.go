package model

import "fmt"

type ConversationKind string

const (
	KindIndividual ConversationKind = "individual"
	KindGroup      ConversationKind = "grupo"
)

// Conversation is read from the backend and never mutated locally; the
// directory reload is the only way counters and ordering change.
type Conversation struct {
	ID          int64            `json:"id"`
	Kind        ConversationKind `json:"tipo"`
	Name        string           `json:"nome"`
	Counterpart *User            `json:"outro_usuario,omitempty"`
	LastMessage *MessagePreview  `json:"ultima_mensagem,omitempty"`
	UnreadCount int              `json:"nao_lidas"`
	CreatedAt   Time             `json:"data_criacao"`
}

// DisplayName prefers the counterpart's name for individual conversations.
func (c Conversation) DisplayName() string {
	if c.Kind == KindIndividual && c.Counterpart != nil && c.Counterpart.Name != "" {
		return c.Counterpart.Name
	}
	if c.Name != "" {
		return c.Name
	}
	return "Conversation"
}

// Preview is the directory line under the conversation name.
func (c Conversation) Preview() string {
	if c.LastMessage == nil {
		return "No messages yet"
	}
	return Truncate(c.LastMessage.Body, PreviewMaxRunes)
}

// Activity is the timestamp the directory sorts by on the server side: the
// last message when there is one, creation time otherwise.
func (c Conversation) Activity() Time {
	if c.LastMessage != nil {
		return c.LastMessage.SentAt
	}
	return c.CreatedAt
}

// PreviewMaxRunes caps the directory preview line.
const PreviewMaxRunes = 30

// Truncate shortens s to at most max runes, marking the cut with an
// ellipsis.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// Topic names the realtime channel carrying one conversation's events.
func Topic(conversationID int64) string {
	return fmt.Sprintf("chat-%d", conversationID)
}
