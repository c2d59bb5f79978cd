package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/networkup/netup/pkg/api"
	"github.com/networkup/netup/pkg/auth"
	"github.com/networkup/netup/pkg/chat"
	"github.com/networkup/netup/pkg/config"
	"github.com/networkup/netup/pkg/realtime"
)

// connSubscriber adapts the realtime connection to the sync client. A nil
// receiver is the offline mode: subscriptions become no-ops and the UI runs
// on REST alone.
type connSubscriber struct {
	conn *realtime.Conn
}

func (s *connSubscriber) Subscribe(topic string) chat.Channel {
	if s.conn == nil {
		return noopChannel{}
	}
	return s.conn.Subscribe(topic)
}

func (s *connSubscriber) Unsubscribe(topic string) {
	if s.conn != nil {
		s.conn.Unsubscribe(topic)
	}
}

type noopChannel struct{}

func (noopChannel) Bind(string, func([]byte)) {}

func main() {
	_ = godotenv.Load()

	authPayload := flag.String("auth", "", "base64 auth payload from the web login redirect")
	logout := flag.Bool("logout", false, "clear the stored session and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	setupLogging(cfg)

	sessionPath := cfg.SessionFile
	if sessionPath == "" {
		sessionPath, err = auth.DefaultPath()
		if err != nil {
			log.Fatal(err)
		}
	}
	store, err := auth.Open(sessionPath)
	if err != nil {
		log.Fatal(err)
	}

	if *logout {
		if err := store.Clear(); err != nil {
			log.Fatal(err)
		}
		fmt.Println("Signed out.")
		return
	}

	if *authPayload != "" {
		payload, err := auth.DecodeAuthPayload(*authPayload)
		if err != nil {
			log.Fatal("invalid auth payload:", err)
		}
		if err := store.SetAuth(payload.AccessToken, payload.UserID, payload.User); err != nil {
			log.Fatal(err)
		}
	}

	session, signed := store.Session()
	if signed {
		if claims, err := auth.ParseToken(store.AccessToken()); err == nil && claims.Expired(time.Now()) {
			slog.Warn("stored token expired, running signed out")
			signed = false
		}
	}

	backend := api.New(cfg.APIBaseURL, store, cfg.RequestTimeout)

	sub := &connSubscriber{}
	if signed {
		conn, err := realtime.Dial(context.Background(), cfg.RealtimeEndpoint())
		if err != nil {
			slog.Error("realtime dial", "error", err)
		} else {
			sub.conn = conn
			defer conn.Close()
		}
	}

	render := &teaRenderer{}
	sync := chat.New(session, backend, sub, render, chat.Options{})
	defer sync.Close()

	app := newApp(cfg, backend, sync, session, signed)
	program := tea.NewProgram(app, tea.WithAltScreen())
	render.Attach(program)

	if _, err := program.Run(); err != nil {
		log.Fatal(err)
	}
}

// setupLogging routes slog away from the terminal the TUI owns. Without a
// log file everything is dropped.
func setupLogging(cfg *config.Config) {
	var w io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal(err)
		}
		w = f
	}

	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}
