package model

// Event names published on a conversation's realtime channel.
const (
	EventNewMessage   = "nova-mensagem"
	EventMessagesRead = "mensagens-lidas"
	EventTyping       = "digitando"
)

// ReadReceipt arrives when someone opens the conversation and marks it read.
type ReadReceipt struct {
	ConversationID int64 `json:"conversa_id"`
	ReaderID       int64 `json:"lido_por"`
}

// TypingEvent arrives while a participant is typing. No stop event exists;
// the indicator expires on a timer instead.
type TypingEvent struct {
	ConversationID int64  `json:"conversa_id"`
	UserID         int64  `json:"usuario_id"`
	UserName       string `json:"usuario_nome"`
}
