package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/networkup/netup/pkg/model"
)

// AuthPayload is the base64 blob identity redirects hand over in the query
// string after an external login.
type AuthPayload struct {
	AccessToken string      `json:"accessToken"`
	UserID      int64       `json:"userId"`
	User        *model.User `json:"usuario,omitempty"`
}

// DecodeAuthPayload tolerates the URL-safe alphabet, stripped padding, and
// '+' characters mangled into spaces by query-string parsing.
func DecodeAuthPayload(raw string) (*AuthPayload, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("empty auth payload")
	}
	s = strings.ReplaceAll(s, " ", "+")
	s = strings.ReplaceAll(s, "-", "+")
	s = strings.ReplaceAll(s, "_", "/")
	if pad := len(s) % 4; pad != 0 {
		s += strings.Repeat("=", 4-pad)
	}

	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode auth payload: %w", err)
	}
	payload := &AuthPayload{}
	if err := json.Unmarshal(decoded, payload); err != nil {
		return nil, fmt.Errorf("parse auth payload: %w", err)
	}
	return payload, nil
}
