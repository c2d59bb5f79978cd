package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/networkup/netup/pkg/model"
)

// Conversations lists the user's conversations in the server's order: most
// recent activity first, unread counters included. The client never
// re-sorts it.
func (c *Client) Conversations(ctx context.Context, userID int64) ([]model.Conversation, error) {
	var out []model.Conversation
	if err := c.authGet(ctx, fmt.Sprintf("/chat/conversas/%d", userID), &out); err != nil {
		return nil, fmt.Errorf("load conversations: %w", err)
	}
	return out, nil
}

// Messages loads a conversation's history, oldest first.
func (c *Client) Messages(ctx context.Context, conversationID int64) ([]model.Message, error) {
	var out []model.Message
	if err := c.authGet(ctx, fmt.Sprintf("/chat/mensagens/%d", conversationID), &out); err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	return out, nil
}

// SendMessage posts a message. The authoritative copy comes back through
// the realtime channel, not the response body.
func (c *Client) SendMessage(ctx context.Context, conversationID int64, body string) error {
	in := struct {
		ConversationID int64  `json:"conversaId"`
		Body           string `json:"conteudo"`
	}{conversationID, body}
	if err := c.authPost(ctx, "/chat/mensagens/enviar", in, nil); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// MarkRead resets the unread counter for a conversation.
func (c *Client) MarkRead(ctx context.Context, conversationID int64) error {
	in := struct {
		ConversationID int64 `json:"conversaId"`
	}{conversationID}
	if err := c.authPost(ctx, "/chat/mensagens/lidas", in, nil); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

// Typing tells the conversation's channel the user is typing.
func (c *Client) Typing(ctx context.Context, conversationID int64, userName string) error {
	in := struct {
		ConversationID int64  `json:"conversaId"`
		UserName       string `json:"usuarioNome"`
	}{conversationID, userName}
	if err := c.authPost(ctx, "/chat/digitando", in, nil); err != nil {
		return fmt.Errorf("send typing: %w", err)
	}
	return nil
}

// CreateConversation opens a conversation with another user. The backend
// returns the existing one if it was already there.
func (c *Client) CreateConversation(ctx context.Context, otherUserID int64, kind model.ConversationKind) (model.Conversation, error) {
	in := struct {
		OtherUserID int64                  `json:"outroUsuarioId"`
		Kind        model.ConversationKind `json:"tipo"`
	}{otherUserID, kind}
	var out model.Conversation
	if err := c.authPost(ctx, "/chat/conversas/criar", in, &out); err != nil {
		return model.Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	return out, nil
}

// SearchUsers finds users to start a conversation with.
func (c *Client) SearchUsers(ctx context.Context, term string) ([]model.User, error) {
	var out []model.User
	path := "/chat/usuarios/buscar?termo=" + url.QueryEscape(term)
	if err := c.authGet(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return out, nil
}
