package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestUserAvatarNormalization(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"canonical field", `{"id":1,"nome":"Ana","foto_perfil_url":"https://cdn/x.png"}`, "https://cdn/x.png"},
		{"legacy field", `{"id":1,"nome":"Ana","foto_perfil":"https://cdn/y.png"}`, "https://cdn/y.png"},
		{"camel case provider", `{"id":1,"nome":"Ana","avatarUrl":"https://cdn/z.png"}`, "https://cdn/z.png"},
		{"oauth picture", `{"id":1,"nome":"Ana","picture":"https://lh3/u.jpg"}`, "https://lh3/u.jpg"},
		{"http upgraded", `{"id":1,"nome":"Ana","foto_perfil":"http://cdn/x.png"}`, "https://cdn/x.png"},
		{"scheme relative", `{"id":1,"nome":"Ana","photo":"//cdn/x.png"}`, "https://cdn/x.png"},
		{"first non-empty wins", `{"id":1,"nome":"Ana","foto_perfil_url":"","avatar":"https://cdn/a.png"}`, "https://cdn/a.png"},
		{"whitespace only is empty", `{"id":1,"nome":"Ana","foto_perfil":"  "}`, ""},
		{"none present", `{"id":1,"nome":"Ana"}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var u User
			if err := json.Unmarshal([]byte(tc.in), &u); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if u.AvatarURL != tc.want {
				t.Errorf("AvatarURL = %q, want %q", u.AvatarURL, tc.want)
			}
		})
	}
}

func TestUserRoundTrip(t *testing.T) {
	in := User{ID: 7, Name: "Bruno", Email: "b@x.com", Status: StatusActive, AvatarURL: "https://cdn/b.png"}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out User
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestMessageUnmarshal(t *testing.T) {
	raw := `{"id":99,"conversa_id":42,"usuario_id":3,"usuario_nome":"Carla","foto_perfil":"http://cdn/c.png","conteudo":"oi","data_envio":"2026-01-02 15:04:05"}`
	var m Message
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.ID != 99 || m.ConversationID != 42 || m.SenderID != 3 {
		t.Errorf("ids = %d/%d/%d", m.ID, m.ConversationID, m.SenderID)
	}
	if m.AvatarURL != "https://cdn/c.png" {
		t.Errorf("AvatarURL = %q", m.AvatarURL)
	}
	if m.SentAt.IsZero() {
		t.Error("SentAt should parse the space-separated layout")
	}
	if m.Delivery != "" {
		t.Errorf("Delivery should stay local-only, got %q", m.Delivery)
	}
}

func TestTimeLayouts(t *testing.T) {
	cases := []struct {
		in   string
		zero bool
	}{
		{`"2026-08-30T10:00:00Z"`, false},
		{`"2026-08-30T10:00:00.123Z"`, false},
		{`"2026-08-30 10:00:00"`, false},
		{`"2026-08-30"`, false},
		{`"not a date"`, true},
		{`""`, true},
		{`null`, true},
	}
	for _, tc := range cases {
		var ts Time
		if err := json.Unmarshal([]byte(tc.in), &ts); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if ts.IsZero() != tc.zero {
			t.Errorf("%s: IsZero = %v, want %v", tc.in, ts.IsZero(), tc.zero)
		}
	}
}

func TestTimeRelative(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-48 * time.Hour), "2d"},
		{now.Add(-30 * 24 * time.Hour), "31/07/2026"},
	}
	for _, tc := range cases {
		if got := (Time{tc.at}).Relative(now); got != tc.want {
			t.Errorf("Relative(%v) = %q, want %q", tc.at, got, tc.want)
		}
	}
	if got := (Time{}).Relative(now); got != "now" {
		t.Errorf("zero time Relative = %q, want now", got)
	}
}

func TestConversationDisplayName(t *testing.T) {
	ana := &User{ID: 2, Name: "Ana"}
	cases := []struct {
		conv Conversation
		want string
	}{
		{Conversation{Kind: KindIndividual, Counterpart: ana}, "Ana"},
		{Conversation{Kind: KindIndividual, Name: "fallback"}, "fallback"},
		{Conversation{Kind: KindGroup, Name: "Turma", Counterpart: ana}, "Turma"},
		{Conversation{}, "Conversation"},
	}
	for _, tc := range cases {
		if got := tc.conv.DisplayName(); got != tc.want {
			t.Errorf("DisplayName = %q, want %q", got, tc.want)
		}
	}
}

func TestConversationPreview(t *testing.T) {
	c := Conversation{}
	if got := c.Preview(); got != "No messages yet" {
		t.Errorf("empty preview = %q", got)
	}
	c.LastMessage = &MessagePreview{Body: "0123456789012345678901234567890123456789"}
	want := "012345678901234567890123456789..."
	if got := c.Preview(); got != want {
		t.Errorf("long preview = %q, want %q", got, want)
	}
}

func TestTopic(t *testing.T) {
	if got := Topic(42); got != "chat-42" {
		t.Errorf("Topic(42) = %q", got)
	}
}

func TestPostUnmarshal(t *testing.T) {
	raw := `{"id":5,"usuario_id":1,"usuario_nome":"Ana","foto_perfil":"http://cdn/a.png","conteudo":"hello","imagem_url":"https://cdn/p.jpg","curtidas":3,"comentarios_lista":[{"id":9,"usuario_id":2,"usuario_nome":"Bruno","conteudo":"nice"}],"created_at":"2026-08-30T10:00:00Z"}`
	var p Post
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.AvatarURL != "https://cdn/a.png" {
		t.Errorf("author avatar = %q", p.AvatarURL)
	}
	if p.ImageURL != "https://cdn/p.jpg" {
		t.Errorf("post image = %q", p.ImageURL)
	}
	if len(p.Comments) != 1 || p.Comments[0].AuthorName != "Bruno" {
		t.Errorf("comments = %+v", p.Comments)
	}
}

func TestLikeResult(t *testing.T) {
	if !(LikeResult{Action: "curtiu"}).Liked() {
		t.Error("curtiu should report liked")
	}
	if (LikeResult{Action: "descurtiu"}).Liked() {
		t.Error("descurtiu should not report liked")
	}
}
