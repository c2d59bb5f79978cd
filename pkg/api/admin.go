package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/networkup/netup/pkg/model"
)

// Stats loads the moderation dashboard counters.
func (c *Client) Stats(ctx context.Context) (model.AdminStats, error) {
	var out model.AdminStats
	if err := c.get(ctx, "/admin/stats", &out); err != nil {
		return model.AdminStats{}, fmt.Errorf("load stats: %w", err)
	}
	return out, nil
}

// SetUserStatus bans or reinstates a user. The dedicated admin route goes
// first; some deployments only ship the plain user update, so a rejection
// falls back to that.
func (c *Client) SetUserStatus(ctx context.Context, userID, adminID int64, status string) error {
	in := struct {
		AdminID int64  `json:"admin_id"`
		Status  string `json:"status"`
	}{adminID, status}
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/users/%d/ban", userID), true, in, nil)
	if err == nil {
		return nil
	}

	fallback := struct {
		Status string `json:"status"`
	}{status}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", userID), true, fallback, nil); err != nil {
		return fmt.Errorf("set user status: %w", err)
	}
	return nil
}

// BanUser marks a user banned.
func (c *Client) BanUser(ctx context.Context, userID, adminID int64) error {
	return c.SetUserStatus(ctx, userID, adminID, model.StatusBanned)
}

// UnbanUser reinstates a banned user.
func (c *Client) UnbanUser(ctx context.Context, userID, adminID int64) error {
	return c.SetUserStatus(ctx, userID, adminID, model.StatusActive)
}
