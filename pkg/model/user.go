package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Session is the identity the rest of the client works with. It is resolved
// once from the auth store and read-only afterwards.
type Session struct {
	UserID      int64  `json:"userId"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

const (
	StatusActive = "ativo"
	StatusBanned = "banido"
)

type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"nome"`
	Email     string `json:"email,omitempty"`
	Status    string `json:"status,omitempty"`
	Role      string `json:"role,omitempty"`
	AvatarURL string `json:"foto_perfil_url,omitempty"`
}

// UnmarshalJSON folds the many avatar field spellings different backend
// flows use into the one canonical AvatarURL.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     int64  `json:"id"`
		Name   string `json:"nome"`
		Email  string `json:"email"`
		Status string `json:"status"`
		Role   string `json:"role"`
		avatarFields
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode user: %w", err)
	}
	*u = User{
		ID:        raw.ID,
		Name:      raw.Name,
		Email:     raw.Email,
		Status:    raw.Status,
		Role:      raw.Role,
		AvatarURL: raw.pick(),
	}
	return nil
}

// Initial is the single-letter avatar placeholder.
func (u User) Initial() string {
	return initial(u.Name)
}

func initial(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "U"
}
