package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/networkup/netup/pkg/api"
	"github.com/networkup/netup/pkg/chat"
	"github.com/networkup/netup/pkg/config"
	"github.com/networkup/netup/pkg/model"
)

type pane int

const (
	paneChat pane = iota
	paneFeed
	paneUsers
	paneAdmin
)

func (p pane) title() string {
	switch p {
	case paneChat:
		return "Chat"
	case paneFeed:
		return "Feed"
	case paneUsers:
		return "People"
	case paneAdmin:
		return "Admin"
	}
	return "?"
}

// inputTarget says what the text input is collecting right now.
type inputTarget int

const (
	inputNone inputTarget = iota
	inputMessage
	inputSearch
	inputPost
	inputComment
)

type (
	feedMsg  struct{ posts []model.Post }
	usersMsg struct{ users []model.User }
	statsMsg struct{ stats model.AdminStats }

	searchResultsMsg struct{ users []model.User }
	likeToggledMsg   struct {
		postID int64
		result model.LikeResult
	}
	clearNoticeMsg struct{}
)

type appModel struct {
	cfg     *config.Config
	backend *api.Client
	sync    *chat.Client
	session model.Session
	signed  bool

	pane  pane
	width int
	ready bool

	// chat pane
	convs       []model.Conversation
	convCursor  int
	messages    []model.Message
	typingBy    string
	searchHits  []model.User
	searchOpen  bool
	searchIndex int

	// feed pane
	posts      []model.Post
	postCursor int

	// users + admin panes
	users      []model.User
	userCursor int
	stats      model.AdminStats

	input    textinput.Model
	target   inputTarget
	viewport viewport.Model
	spinner  spinner.Model
	loading  bool

	notice     string
	noticeKind chat.NoticeKind
}

func newApp(cfg *config.Config, backend *api.Client, sync *chat.Client, session model.Session, signed bool) appModel {
	ti := textinput.New()
	ti.Placeholder = "Type a message"
	ti.CharLimit = config.MaxPostLen

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return appModel{
		cfg:     cfg,
		backend: backend,
		sync:    sync,
		session: session,
		signed:  signed,
		input:   ti,
		spinner: sp,
		loading: true,
	}
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.loadFeed()}
	if m.signed {
		cmds = append(cmds, func() tea.Msg {
			m.sync.LoadDirectory(context.Background())
			return nil
		})
	}
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		headerAndFooter := 7
		if !m.ready {
			m.viewport = viewport.New(msg.Width-sidebarWidth-4, msg.Height-headerAndFooter)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - sidebarWidth - 4
			m.viewport.Height = msg.Height - headerAndFooter
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	// sync client callbacks
	case conversationsMsg:
		m.loading = false
		m.convs = msg.convs
		if m.convCursor >= len(m.convs) {
			m.convCursor = 0
		}
		return m, nil
	case historyMsg:
		m.messages = msg.msgs
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil
	case appendMsg:
		m.messages = append(m.messages, msg.msg)
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil
	case deliveryMsg:
		for i := range m.messages {
			if m.messages[i].ID == msg.localID {
				m.messages[i].Delivery = msg.state
			}
		}
		m.refreshViewport()
		return m, nil
	case sentReadMsg:
		for i := range m.messages {
			if m.messages[i].SenderID == m.session.UserID && m.messages[i].Delivery == model.StateSent {
				m.messages[i].Delivery = ""
			}
		}
		m.refreshViewport()
		return m, nil
	case typingMsg:
		m.typingBy = msg.name
		return m, nil
	case clearTypingMsg:
		m.typingBy = ""
		return m, nil
	case noticeMsg:
		m.notice = msg.text
		m.noticeKind = msg.kind
		return m, tea.Tick(4*time.Second, func(time.Time) tea.Msg { return clearNoticeMsg{} })
	case clearNoticeMsg:
		m.notice = ""
		return m, nil

	// REST results
	case feedMsg:
		m.loading = false
		m.posts = msg.posts
		if m.postCursor >= len(m.posts) {
			m.postCursor = 0
		}
		return m, nil
	case usersMsg:
		m.users = msg.users
		if m.userCursor >= len(m.users) {
			m.userCursor = 0
		}
		return m, nil
	case statsMsg:
		m.stats = msg.stats
		return m, nil
	case searchResultsMsg:
		m.searchHits = msg.users
		m.searchOpen = len(msg.users) > 0
		m.searchIndex = 0
		return m, nil
	case likeToggledMsg:
		for i := range m.posts {
			if m.posts[i].ID == msg.postID {
				m.posts[i].Likes = msg.result.TotalLikes
			}
		}
		return m, nil
	}

	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.target != inputNone {
		return m.handleInputKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.pane = (m.pane + 1) % 4
		return m, m.enterPane()
	case "1", "2", "3", "4":
		m.pane = pane(int(msg.String()[0] - '1'))
		return m, m.enterPane()
	}

	switch m.pane {
	case paneChat:
		return m.handleChatKey(msg)
	case paneFeed:
		return m.handleFeedKey(msg)
	case paneUsers:
		return m.handleUsersKey(msg)
	case paneAdmin:
		return m.handleAdminKey(msg)
	}
	return m, nil
}

func (m appModel) enterPane() tea.Cmd {
	switch m.pane {
	case paneFeed:
		return m.loadFeed()
	case paneUsers:
		return m.loadUsers()
	case paneAdmin:
		return tea.Batch(m.loadUsers(), m.loadStats())
	}
	return nil
}

func (m appModel) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.signed {
		return m, nil
	}

	if m.searchOpen {
		switch msg.String() {
		case "esc":
			m.searchOpen = false
			m.searchHits = nil
			return m, nil
		case "up", "k":
			if m.searchIndex > 0 {
				m.searchIndex--
			}
			return m, nil
		case "down", "j":
			if m.searchIndex < len(m.searchHits)-1 {
				m.searchIndex++
			}
			return m, nil
		case "enter":
			target := m.searchHits[m.searchIndex]
			m.searchOpen = false
			m.searchHits = nil
			return m, func() tea.Msg {
				m.sync.StartConversation(context.Background(), target.ID)
				return nil
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.convCursor > 0 {
			m.convCursor--
		}
	case "down", "j":
		if m.convCursor < len(m.convs)-1 {
			m.convCursor++
		}
	case "enter":
		if len(m.convs) == 0 {
			return m, nil
		}
		id := m.convs[m.convCursor].ID
		return m, func() tea.Msg {
			m.sync.Select(context.Background(), id)
			return nil
		}
	case "i":
		if m.sync.Active() == 0 {
			return m, nil
		}
		return m.openInput(inputMessage, "Type a message"), textinput.Blink
	case "/":
		return m.openInput(inputSearch, "Find people"), textinput.Blink
	case "r":
		return m, func() tea.Msg {
			m.sync.LoadDirectory(context.Background())
			return nil
		}
	case "pgup":
		m.viewport.HalfViewUp()
	case "pgdown":
		m.viewport.HalfViewDown()
	}
	return m, nil
}

func (m appModel) handleFeedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.postCursor > 0 {
			m.postCursor--
		}
	case "down", "j":
		if m.postCursor < len(m.posts)-1 {
			m.postCursor++
		}
	case "r":
		return m, m.loadFeed()
	case "n":
		if !m.signed {
			return m.withNotice(chat.NoticeError, "You need to be signed in."), nil
		}
		return m.openInput(inputPost, "What's on your mind?"), textinput.Blink
	case "c":
		if !m.signed || len(m.posts) == 0 {
			return m, nil
		}
		return m.openInput(inputComment, "Write a comment"), textinput.Blink
	case "l":
		if !m.signed || len(m.posts) == 0 {
			return m, nil
		}
		postID := m.posts[m.postCursor].ID
		return m, func() tea.Msg {
			result, err := m.backend.ToggleLike(context.Background(), postID)
			if err != nil {
				return noticeMsg{kind: chat.NoticeError, text: "Could not update the like"}
			}
			return likeToggledMsg{postID: postID, result: result}
		}
	case "d":
		if !m.signed || len(m.posts) == 0 {
			return m, nil
		}
		post := m.posts[m.postCursor]
		if post.AuthorID != m.session.UserID {
			return m.withNotice(chat.NoticeError, "You can only delete your own posts."), nil
		}
		userID := m.session.UserID
		return m, func() tea.Msg {
			if err := m.backend.DeletePost(context.Background(), post.ID, userID); err != nil {
				return noticeMsg{kind: chat.NoticeError, text: "Could not delete the post"}
			}
			return noticeMsg{kind: chat.NoticeSuccess, text: "Post deleted"}
		}
	}
	return m, nil
}

func (m appModel) handleUsersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.userCursor > 0 {
			m.userCursor--
		}
	case "down", "j":
		if m.userCursor < len(m.users)-1 {
			m.userCursor++
		}
	case "r":
		return m, m.loadUsers()
	case "enter":
		if !m.signed || len(m.users) == 0 {
			return m, nil
		}
		target := m.users[m.userCursor]
		if target.ID == m.session.UserID {
			return m, nil
		}
		m.pane = paneChat
		return m, func() tea.Msg {
			m.sync.StartConversation(context.Background(), target.ID)
			return nil
		}
	}
	return m, nil
}

func (m appModel) handleAdminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.userCursor > 0 {
			m.userCursor--
		}
	case "down", "j":
		if m.userCursor < len(m.users)-1 {
			m.userCursor++
		}
	case "r":
		return m, tea.Batch(m.loadUsers(), m.loadStats())
	case "b", "u":
		if !m.signed || len(m.users) == 0 {
			return m, nil
		}
		target := m.users[m.userCursor]
		adminID := m.session.UserID
		ban := msg.String() == "b"
		return m, func() tea.Msg {
			var err error
			if ban {
				err = m.backend.BanUser(context.Background(), target.ID, adminID)
			} else {
				err = m.backend.UnbanUser(context.Background(), target.ID, adminID)
			}
			if err != nil {
				return noticeMsg{kind: chat.NoticeError, text: "Moderation call failed"}
			}
			return noticeMsg{kind: chat.NoticeSuccess, text: fmt.Sprintf("Updated %s", target.Name)}
		}
	}
	return m, nil
}

func (m appModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.target = inputNone
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		target := m.target
		m.target = inputNone
		m.input.Blur()
		m.input.SetValue("")
		return m, m.submit(target, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if m.target == inputMessage {
		return m, tea.Batch(cmd, func() tea.Msg {
			m.sync.InputTyping(context.Background())
			return nil
		})
	}
	return m, cmd
}

func (m appModel) submit(target inputTarget, value string) tea.Cmd {
	if value == "" {
		return nil
	}
	switch target {
	case inputMessage:
		return func() tea.Msg {
			if err := m.sync.Send(context.Background(), value); err != nil {
				return noticeMsg{kind: chat.NoticeError, text: "Message cannot be empty"}
			}
			return nil
		}
	case inputSearch:
		return func() tea.Msg {
			return searchResultsMsg{users: m.sync.SearchUsers(context.Background(), value)}
		}
	case inputPost:
		return func() tea.Msg {
			if _, err := m.backend.CreatePost(context.Background(), value, ""); err != nil {
				return noticeMsg{kind: chat.NoticeError, text: "Could not publish the post"}
			}
			return noticeMsg{kind: chat.NoticeSuccess, text: "Post published"}
		}
	case inputComment:
		postID := m.posts[m.postCursor].ID
		return func() tea.Msg {
			if err := m.backend.AddComment(context.Background(), postID, value); err != nil {
				return noticeMsg{kind: chat.NoticeError, text: "Could not add the comment"}
			}
			return noticeMsg{kind: chat.NoticeSuccess, text: "Comment added"}
		}
	}
	return nil
}

func (m appModel) openInput(target inputTarget, placeholder string) appModel {
	m.target = target
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
	return m
}

func (m appModel) withNotice(kind chat.NoticeKind, text string) appModel {
	m.notice = text
	m.noticeKind = kind
	return m
}

func (m appModel) loadFeed() tea.Cmd {
	return func() tea.Msg {
		posts, err := m.backend.Feed(context.Background())
		if err != nil {
			return noticeMsg{kind: chat.NoticeError, text: "Could not load the feed"}
		}
		return feedMsg{posts: posts}
	}
}

func (m appModel) loadUsers() tea.Cmd {
	return func() tea.Msg {
		users, err := m.backend.Users(context.Background())
		if err != nil {
			return noticeMsg{kind: chat.NoticeError, text: "Could not load users"}
		}
		return usersMsg{users: users}
	}
}

func (m appModel) loadStats() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.backend.Stats(context.Background())
		if err != nil {
			return noticeMsg{kind: chat.NoticeError, text: "Could not load stats"}
		}
		return statsMsg{stats: stats}
	}
}
