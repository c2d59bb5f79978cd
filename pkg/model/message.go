package model

import (
	"encoding/json"
	"fmt"
)

// DeliveryState tracks a message through the optimistic send pipeline. Only
// the local copy ever carries it; the backend has no matching column.
type DeliveryState string

const (
	StateSending DeliveryState = "sending"
	StateSent    DeliveryState = "sent"
	StateFailed  DeliveryState = "failed"
)

type Message struct {
	ID             int64         `json:"id"`
	ConversationID int64         `json:"conversa_id,omitempty"`
	SenderID       int64         `json:"usuario_id"`
	SenderName     string        `json:"usuario_nome"`
	AvatarURL      string        `json:"foto_perfil,omitempty"`
	Body           string        `json:"conteudo"`
	SentAt         Time          `json:"data_envio"`
	Delivery       DeliveryState `json:"-"`
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID             int64  `json:"id"`
		ConversationID int64  `json:"conversa_id"`
		SenderID       int64  `json:"usuario_id"`
		SenderName     string `json:"usuario_nome"`
		Body           string `json:"conteudo"`
		SentAt         Time   `json:"data_envio"`
		avatarFields
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	*m = Message{
		ID:             raw.ID,
		ConversationID: raw.ConversationID,
		SenderID:       raw.SenderID,
		SenderName:     raw.SenderName,
		AvatarURL:      raw.pick(),
		Body:           raw.Body,
		SentAt:         raw.SentAt,
	}
	return nil
}

// MessagePreview is the last-message summary shown in the directory.
type MessagePreview struct {
	Body   string `json:"conteudo"`
	SentAt Time   `json:"data_envio"`
}
