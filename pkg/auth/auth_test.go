package auth

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/networkup/netup/pkg/model"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := st.Session(); ok {
		t.Fatal("fresh store should have no session")
	}

	user := &model.User{ID: 7, Name: "Ana", AvatarURL: "https://cdn/a.png"}
	if err := st.SetAuth("tok-123", 7, user); err != nil {
		t.Fatalf("set auth: %v", err)
	}

	// Re-open from disk
	st2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if st2.AccessToken() != "tok-123" || st2.UserID() != 7 {
		t.Errorf("persisted token/user = %q/%d", st2.AccessToken(), st2.UserID())
	}
	sess, ok := st2.Session()
	if !ok {
		t.Fatal("session missing after reopen")
	}
	if sess.DisplayName != "Ana" || sess.AvatarURL != "https://cdn/a.png" {
		t.Errorf("session = %+v", sess)
	}
}

func TestStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	st, _ := Open(path)
	if err := st.SetAuth("tok", 1, nil); err != nil {
		t.Fatalf("set auth: %v", err)
	}
	if err := st.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if st.AccessToken() != "" {
		t.Error("token should be gone after clear")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("session file should be removed")
	}
	// Clearing twice is fine
	if err := st.Clear(); err != nil {
		t.Errorf("second clear: %v", err)
	}
}

func TestStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open should tolerate corrupt file: %v", err)
	}
	if _, ok := st.Session(); ok {
		t.Error("corrupt file should leave the store logged out")
	}
}

func TestStoreSessionRequiresTokenAndUser(t *testing.T) {
	st, _ := Open(filepath.Join(t.TempDir(), "s.json"))
	if err := st.SetAuth("tok", 0, nil); err != nil {
		t.Fatal(err)
	}
	if _, ok := st.Session(); ok {
		t.Error("session without a user id should not resolve")
	}
}

func TestParseToken(t *testing.T) {
	claims := &Claims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-only-key"))
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := ParseToken(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.UserID != 42 {
		t.Errorf("UserID = %d", parsed.UserID)
	}
	if parsed.Expired(time.Now()) {
		t.Error("token should not be expired yet")
	}
	if !parsed.Expired(time.Now().Add(2 * time.Hour)) {
		t.Error("token should expire after its exp claim")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("definitely-not-a-jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestClaimsWithoutExpiry(t *testing.T) {
	c := &Claims{UserID: 1}
	if c.Expired(time.Now().Add(1000 * time.Hour)) {
		t.Error("claims without exp never expire client-side")
	}
}

func TestDecodeAuthPayload(t *testing.T) {
	body := `{"accessToken":"tok-abc","userId":9,"usuario":{"id":9,"nome":"Ana"}}`

	std := base64.StdEncoding.EncodeToString([]byte(body))
	urlSafe := base64.RawURLEncoding.EncodeToString([]byte(body))
	// '+' flipped to spaces by query parsing
	spaced := replacePlus(std)

	for name, in := range map[string]string{"standard": std, "url-safe no padding": urlSafe, "spaces for plus": spaced} {
		t.Run(name, func(t *testing.T) {
			p, err := DecodeAuthPayload(in)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if p.AccessToken != "tok-abc" || p.UserID != 9 {
				t.Errorf("payload = %+v", p)
			}
			if p.User == nil || p.User.Name != "Ana" {
				t.Errorf("user = %+v", p.User)
			}
		})
	}
}

func TestDecodeAuthPayloadInvalid(t *testing.T) {
	for _, in := range []string{"", "   ", "!!!", base64.StdEncoding.EncodeToString([]byte("not json"))} {
		if _, err := DecodeAuthPayload(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func replacePlus(s string) string {
	out := []byte(s)
	for i := range out {
		if out[i] == '+' {
			out[i] = ' '
		}
	}
	return string(out)
}
