package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/networkup/netup/pkg/chat"
	"github.com/networkup/netup/pkg/model"
)

const sidebarWidth = 32

var (
	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	sidebarStyle = lipgloss.NewStyle().
			Width(sidebarWidth).
			Border(lipgloss.RoundedBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("238"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	senderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	ownStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("43"))
	badgeStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("205")).
			Padding(0, 1)

	noticeInfoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	noticeOkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("43"))
	noticeErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	typingStyle      = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	bannedUserStyle  = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))
	statsNumberStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
)

func (m appModel) View() string {
	if !m.ready {
		return fmt.Sprintf("\n %s starting up...\n", m.spinner.View())
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.pane {
	case paneChat:
		b.WriteString(m.renderChat())
	case paneFeed:
		b.WriteString(m.renderFeed())
	case paneUsers:
		b.WriteString(m.renderUsers())
	case paneAdmin:
		b.WriteString(m.renderAdmin())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m appModel) renderTabs() string {
	tabs := make([]string, 0, 4)
	for p := paneChat; p <= paneAdmin; p++ {
		label := fmt.Sprintf("%d %s", int(p)+1, p.title())
		if p == m.pane {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m appModel) renderChat() string {
	if !m.signed {
		return dimStyle.Render("  Sign in to chat: netup -auth <payload>")
	}
	if m.searchOpen {
		return m.renderSearchResults()
	}

	sidebar := m.renderDirectory()
	main := m.viewport.View()

	var below []string
	if m.typingBy != "" {
		below = append(below, typingStyle.Render(m.typingBy+" is typing..."))
	}
	if m.target == inputMessage || m.target == inputSearch {
		below = append(below, m.input.View())
	}
	if len(below) > 0 {
		main = lipgloss.JoinVertical(lipgloss.Left, main, strings.Join(below, "\n"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebarStyle.Render(sidebar), " ", main)
}

func (m appModel) renderDirectory() string {
	if m.loading {
		return fmt.Sprintf(" %s loading...", m.spinner.View())
	}
	if len(m.convs) == 0 {
		return dimStyle.Render(" No conversations yet.\n Press / to find people.")
	}

	var b strings.Builder
	for i, conv := range m.convs {
		name := model.Truncate(conv.DisplayName(), 20)
		line := name
		if conv.UnreadCount > 0 {
			line = fmt.Sprintf("%s %s", name, badgeStyle.Render(fmt.Sprintf("%d", conv.UnreadCount)))
		}
		if i == m.convCursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  " + conv.Preview()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m appModel) renderSearchResults() string {
	if len(m.searchHits) == 0 {
		return dimStyle.Render("  No one found.")
	}
	var b strings.Builder
	b.WriteString("  Start a conversation with:\n\n")
	for i, u := range m.searchHits {
		line := "  " + u.Name
		if i == m.searchIndex {
			line = selectedStyle.Render("> " + u.Name)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// refreshViewport re-renders the message pane into the viewport.
func (m *appModel) refreshViewport() {
	if !m.ready {
		return
	}
	var b strings.Builder
	now := time.Now()
	for _, msg := range m.messages {
		name := senderStyle
		if msg.SenderID == m.session.UserID {
			name = ownStyle
		}
		b.WriteString(fmt.Sprintf("%s %s", name.Render(msg.SenderName), dimStyle.Render(msg.SentAt.Relative(now))))
		if tag := deliveryTag(msg.Delivery); tag != "" {
			b.WriteString(" ")
			b.WriteString(dimStyle.Render(tag))
		}
		b.WriteString("\n")
		b.WriteString(msg.Body)
		b.WriteString("\n\n")
	}
	m.viewport.SetContent(b.String())
}

func deliveryTag(state model.DeliveryState) string {
	switch state {
	case model.StateSending:
		return "(sending)"
	case model.StateSent:
		return "(sent)"
	case model.StateFailed:
		return "(failed)"
	}
	return ""
}

func (m appModel) renderFeed() string {
	if m.loading {
		return fmt.Sprintf(" %s loading...", m.spinner.View())
	}
	if len(m.posts) == 0 {
		return dimStyle.Render("  The feed is empty.")
	}

	var b strings.Builder
	now := time.Now()
	for i, post := range m.posts {
		header := fmt.Sprintf("%s %s", senderStyle.Render(post.AuthorName), dimStyle.Render(post.CreatedAt.Relative(now)))
		if i == m.postCursor {
			header = selectedStyle.Render("> ") + header
		} else {
			header = "  " + header
		}
		b.WriteString(header)
		b.WriteString("\n  ")
		b.WriteString(post.Body)
		b.WriteString("\n  ")
		meta := fmt.Sprintf("%d likes, %d comments", post.Likes, len(post.Comments))
		if post.ImageURL != "" {
			meta += ", photo"
		}
		b.WriteString(dimStyle.Render(meta))
		b.WriteString("\n\n")
	}
	if m.target == inputPost || m.target == inputComment {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	return b.String()
}

func (m appModel) renderUsers() string {
	if len(m.users) == 0 {
		return dimStyle.Render("  Nobody here yet.")
	}
	var b strings.Builder
	for i, u := range m.users {
		line := fmt.Sprintf("[%s] %s", u.Initial(), u.Name)
		if u.Status == model.StatusBanned {
			line = bannedUserStyle.Render(line)
		}
		if i == m.userCursor {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m appModel) renderAdmin() string {
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(strings.Join([]string{
		statsNumberStyle.Render(fmt.Sprintf("%d", m.stats.TotalUsers)) + " users",
		statsNumberStyle.Render(fmt.Sprintf("%d", m.stats.ActiveUsers)) + " active",
		statsNumberStyle.Render(fmt.Sprintf("%d", m.stats.BannedUsers)) + " banned",
		statsNumberStyle.Render(fmt.Sprintf("%d", m.stats.TotalPosts)) + " posts",
		statsNumberStyle.Render(fmt.Sprintf("%d", m.stats.TotalComments)) + " comments",
		statsNumberStyle.Render(fmt.Sprintf("%d", m.stats.TotalLikes)) + " likes",
	}, dimStyle.Render("  |  ")))
	b.WriteString("\n\n")
	b.WriteString(m.renderUsers())
	return b.String()
}

func (m appModel) renderFooter() string {
	if m.notice != "" {
		style := noticeInfoStyle
		switch m.noticeKind {
		case chat.NoticeSuccess:
			style = noticeOkStyle
		case chat.NoticeError:
			style = noticeErrStyle
		}
		return style.Render("  " + m.notice)
	}

	var help string
	switch {
	case m.target != inputNone:
		help = "enter send, esc cancel"
	case m.pane == paneChat:
		help = "enter open, i write, / search, r refresh, tab next pane, q quit"
	case m.pane == paneFeed:
		help = "l like, c comment, n post, d delete, r refresh, tab next pane, q quit"
	case m.pane == paneUsers:
		help = "enter message, r refresh, tab next pane, q quit"
	default:
		help = "b ban, u unban, r refresh, tab next pane, q quit"
	}
	return footerStyle.Render("  " + help)
}
