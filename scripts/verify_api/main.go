package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/networkup/netup/pkg/api"
	"github.com/networkup/netup/pkg/config"
)

type envToken struct{}

func (envToken) AccessToken() string { return os.Getenv("NETUP_TOKEN") }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	client := api.New(cfg.APIBaseURL, envToken{}, 30*time.Second)
	ctx := context.Background()

	// 1. Public endpoints
	log.Println("Fetching feed...")
	posts, err := client.Feed(ctx)
	if err != nil {
		log.Fatal("Feed request failed:", err)
	}
	fmt.Printf("Feed: %d posts\n", len(posts))

	log.Println("Fetching users...")
	users, err := client.Users(ctx)
	if err != nil {
		log.Fatal("Users request failed:", err)
	}
	fmt.Printf("Users: %d\n", len(users))

	log.Println("Fetching admin stats...")
	stats, err := client.Stats(ctx)
	if err != nil {
		log.Fatal("Stats request failed:", err)
	}
	fmt.Printf("Stats: %d users, %d posts, %d comments\n", stats.TotalUsers, stats.TotalPosts, stats.TotalComments)

	// 2. Authenticated endpoints, when a token and user id are provided
	if os.Getenv("NETUP_TOKEN") == "" {
		log.Println("NETUP_TOKEN not set, skipping authenticated checks")
		return
	}
	var userID int64
	if _, err := fmt.Sscan(os.Getenv("NETUP_USER_ID"), &userID); err != nil {
		log.Fatal("NETUP_USER_ID must be set alongside NETUP_TOKEN")
	}

	log.Printf("Fetching conversations for user %d...", userID)
	convs, err := client.Conversations(ctx, userID)
	if err != nil {
		log.Fatal("Conversations request failed:", err)
	}
	for _, conv := range convs {
		fmt.Printf("  %d %s (%d unread)\n", conv.ID, conv.DisplayName(), conv.UnreadCount)
	}

	if len(convs) > 0 {
		log.Printf("Fetching messages for conversation %d...", convs[0].ID)
		msgs, err := client.Messages(ctx, convs[0].ID)
		if err != nil {
			log.Fatal("Messages request failed:", err)
		}
		fmt.Printf("Messages: %d\n", len(msgs))
	}
}
