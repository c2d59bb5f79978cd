// Package chat implements the conversation synchronization client: the
// conversation directory, the single active channel subscription, the
// optimistic send pipeline and read-receipt handling.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/networkup/netup/pkg/api"
	"github.com/networkup/netup/pkg/config"
	"github.com/networkup/netup/pkg/localid"
	"github.com/networkup/netup/pkg/model"
)

// Options tune the client's timers. Zero values take the defaults from the
// config package.
type Options struct {
	TypingTTL   time.Duration
	ReloadDelay time.Duration
}

// Client owns all chat-side mutable state: the active conversation, the one
// live subscription and the indicator/reload timers. Nothing here is
// package-level; two Clients never share state.
type Client struct {
	session model.Session
	backend Backend
	sub     Subscriber
	render  Renderer
	ids     *localid.Generator

	typingTTL   time.Duration
	reloadDelay time.Duration

	mu          sync.Mutex
	active      int64 // 0 when no conversation is selected
	typingTimer *time.Timer
	reloadTimer *time.Timer
}

func New(session model.Session, backend Backend, sub Subscriber, render Renderer, opts Options) *Client {
	if opts.TypingTTL <= 0 {
		opts.TypingTTL = config.TypingIndicatorTTL
	}
	if opts.ReloadDelay <= 0 {
		opts.ReloadDelay = config.DirectoryReloadDelay
	}
	return &Client{
		session:     session,
		backend:     backend,
		sub:         sub,
		render:      render,
		ids:         localid.New(),
		typingTTL:   opts.TypingTTL,
		reloadDelay: opts.ReloadDelay,
	}
}

// Active returns the selected conversation id, 0 when none.
func (c *Client) Active() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// LoadDirectory fetches the conversation list and renders it. Server order
// (most recent activity first) is kept as-is, so rendering is idempotent
// for unchanged backend state. Failures become a notice plus the empty
// state; they never propagate.
func (c *Client) LoadDirectory(ctx context.Context) {
	convs, err := c.backend.Conversations(ctx, c.session.UserID)
	if err != nil {
		slog.Error("load conversations", "error", err)
		c.render.RenderConversations(nil)
		c.render.Notify(NoticeError, directoryErrText(err))
		return
	}
	c.render.RenderConversations(convs)
}

func directoryErrText(err error) string {
	if errors.Is(err, api.ErrAuth) {
		return "You need to be signed in."
	}
	return "Could not load conversations"
}

// Select makes a conversation the active one. Switching drops the previous
// channel before subscribing the new one, so at most one subscription is
// live at any instant. Re-selecting the active conversation leaves the
// subscription untouched but still reloads history and re-marks it read.
func (c *Client) Select(ctx context.Context, conversationID int64) {
	c.mu.Lock()
	if conversationID != c.active {
		if c.active != 0 {
			c.sub.Unsubscribe(model.Topic(c.active))
		}
		c.active = conversationID
		c.bind(c.sub.Subscribe(model.Topic(conversationID)), conversationID)
	}
	c.mu.Unlock()

	c.loadHistory(ctx, conversationID)

	// Mark-read once per open; the delayed directory refresh picks up the
	// cleared counter rather than any local arithmetic.
	if err := c.backend.MarkRead(ctx, conversationID); err != nil {
		slog.Warn("mark read", "conversation", conversationID, "error", err)
	}
	c.scheduleDirectoryReload()
}

func (c *Client) loadHistory(ctx context.Context, conversationID int64) {
	msgs, err := c.backend.Messages(ctx, conversationID)
	if err != nil {
		slog.Error("load messages", "conversation", conversationID, "error", err)
		c.render.Notify(NoticeError, "Could not load the conversation")
		return
	}
	c.render.RenderHistory(msgs)
}

func (c *Client) bind(ch Channel, conversationID int64) {
	ch.Bind(model.EventNewMessage, func(data []byte) { c.onNewMessage(conversationID, data) })
	ch.Bind(model.EventMessagesRead, func(data []byte) { c.onMessagesRead(data) })
	ch.Bind(model.EventTyping, func(data []byte) { c.onTyping(data) })
}

func (c *Client) onNewMessage(conversationID int64, data []byte) {
	var msg model.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		slog.Error("decode nova-mensagem", "error", err)
		return
	}

	// The sender already sees the optimistic echo; appending the pushed
	// copy would double the entry. Everyone else gets exactly one append.
	if msg.SenderID != c.session.UserID {
		if msg.ConversationID == 0 {
			msg.ConversationID = conversationID
		}
		c.render.ClearTyping()
		c.render.AppendMessage(msg)
	}
	c.scheduleDirectoryReload()
}

func (c *Client) onMessagesRead(data []byte) {
	var receipt model.ReadReceipt
	if err := json.Unmarshal(data, &receipt); err != nil {
		slog.Error("decode mensagens-lidas", "error", err)
		return
	}
	// Our own mark-read echoes back on the channel too; only the other
	// side's read action moves the checkmarks.
	if receipt.ReaderID != c.session.UserID {
		c.render.MarkSentRead()
	}
}

func (c *Client) onTyping(data []byte) {
	var ev model.TypingEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		slog.Error("decode digitando", "error", err)
		return
	}
	if ev.UserID == c.session.UserID {
		return
	}

	name := ev.UserName
	if name == "" {
		name = "Someone"
	}
	c.render.ShowTyping(name)

	c.mu.Lock()
	if c.typingTimer != nil {
		c.typingTimer.Stop()
	}
	c.typingTimer = time.AfterFunc(c.typingTTL, c.render.ClearTyping)
	c.mu.Unlock()
}

// Send validates, renders an optimistic echo, then posts. Clearing the
// input control is the caller's job and must happen before calling. The
// returned error is non-nil only for validation failures, which perform no
// network call at all; transport failures become a notice and a failed
// echo, with no retry; the user resubmits.
func (c *Client) Send(ctx context.Context, body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return fmt.Errorf("%w: empty message", api.ErrValidation)
	}

	c.mu.Lock()
	conversationID := c.active
	c.mu.Unlock()
	if conversationID == 0 {
		return fmt.Errorf("%w: no conversation selected", api.ErrValidation)
	}

	echo := model.Message{
		ID:             c.ids.Next(),
		ConversationID: conversationID,
		SenderID:       c.session.UserID,
		SenderName:     c.session.DisplayName,
		AvatarURL:      c.session.AvatarURL,
		Body:           body,
		SentAt:         model.Now(),
		Delivery:       model.StateSending,
	}
	c.render.AppendMessage(echo)

	if err := c.backend.SendMessage(ctx, conversationID, body); err != nil {
		slog.Error("send message", "conversation", conversationID, "error", err)
		c.render.UpdateDelivery(echo.ID, model.StateFailed)
		c.render.Notify(NoticeError, "Could not send the message")
		return nil
	}
	c.render.UpdateDelivery(echo.ID, model.StateSent)
	c.scheduleDirectoryReload()
	return nil
}

// InputTyping notifies the conversation peers that the user is typing.
// Fire-and-forget: failures are logged and otherwise invisible, and typing
// never blocks on the network.
func (c *Client) InputTyping(ctx context.Context) {
	c.mu.Lock()
	conversationID := c.active
	c.mu.Unlock()
	if conversationID == 0 {
		return
	}

	go func() {
		if err := c.backend.Typing(ctx, conversationID, c.session.DisplayName); err != nil {
			slog.Debug("send typing", "conversation", conversationID, "error", err)
		}
	}()
}

// StartConversation opens (or reuses) an individual conversation with
// another user, refreshes the directory and selects it.
func (c *Client) StartConversation(ctx context.Context, otherUserID int64) {
	conv, err := c.backend.CreateConversation(ctx, otherUserID, model.KindIndividual)
	if err != nil {
		slog.Error("create conversation", "other_user", otherUserID, "error", err)
		c.render.Notify(NoticeError, "Could not start the conversation")
		return
	}
	c.LoadDirectory(ctx)
	c.Select(ctx, conv.ID)
}

// SearchUsers looks up directory users by name or email. Terms shorter than
// the minimum return nothing without touching the network.
func (c *Client) SearchUsers(ctx context.Context, term string) []model.User {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < config.MinSearchTermLen {
		return nil
	}
	users, err := c.backend.SearchUsers(ctx, term)
	if err != nil {
		slog.Error("search users", "term", term, "error", err)
		c.render.Notify(NoticeError, "Could not search users")
		return nil
	}
	return users
}

// scheduleDirectoryReload coalesces the refresh-shortly-after-anything-
// changed pattern. Unread counters and ordering are the server's; the
// client only re-fetches.
func (c *Client) scheduleDirectoryReload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reloadTimer != nil {
		c.reloadTimer.Stop()
	}
	c.reloadTimer = time.AfterFunc(c.reloadDelay, func() {
		c.LoadDirectory(context.Background())
	})
}

// Close drops the active subscription and stops the timers.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.typingTimer != nil {
		c.typingTimer.Stop()
	}
	if c.reloadTimer != nil {
		c.reloadTimer.Stop()
	}
	if c.active != 0 {
		c.sub.Unsubscribe(model.Topic(c.active))
		c.active = 0
	}
}
