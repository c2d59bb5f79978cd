package main

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/networkup/netup/pkg/chat"
	"github.com/networkup/netup/pkg/model"
)

// Messages delivered into the Update loop from the sync client's goroutines.
type (
	conversationsMsg struct{ convs []model.Conversation }
	historyMsg       struct{ msgs []model.Message }
	appendMsg        struct{ msg model.Message }
	deliveryMsg      struct {
		localID int64
		state   model.DeliveryState
	}
	sentReadMsg    struct{}
	typingMsg      struct{ name string }
	clearTypingMsg struct{}
	noticeMsg      struct {
		kind chat.NoticeKind
		text string
	}
)

// teaRenderer forwards sync-client callbacks into the bubbletea program.
// Callbacks can fire before tea.NewProgram has run, so anything arriving
// early is queued and flushed on Attach.
type teaRenderer struct {
	mu      sync.Mutex
	program *tea.Program
	pending []tea.Msg
}

func (r *teaRenderer) Attach(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()
	for _, msg := range pending {
		p.Send(msg)
	}
}

func (r *teaRenderer) send(msg tea.Msg) {
	r.mu.Lock()
	p := r.program
	if p == nil {
		r.pending = append(r.pending, msg)
	}
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func (r *teaRenderer) RenderConversations(convs []model.Conversation) {
	r.send(conversationsMsg{convs: convs})
}

func (r *teaRenderer) RenderHistory(msgs []model.Message) {
	r.send(historyMsg{msgs: msgs})
}

func (r *teaRenderer) AppendMessage(msg model.Message) {
	r.send(appendMsg{msg: msg})
}

func (r *teaRenderer) UpdateDelivery(localID int64, state model.DeliveryState) {
	r.send(deliveryMsg{localID: localID, state: state})
}

func (r *teaRenderer) MarkSentRead() {
	r.send(sentReadMsg{})
}

func (r *teaRenderer) ShowTyping(name string) {
	r.send(typingMsg{name: name})
}

func (r *teaRenderer) ClearTyping() {
	r.send(clearTypingMsg{})
}

func (r *teaRenderer) Notify(kind chat.NoticeKind, text string) {
	r.send(noticeMsg{kind: kind, text: text})
}
