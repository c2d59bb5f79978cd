package api

import (
	"context"
	"fmt"

	"github.com/networkup/netup/pkg/model"
)

// Users loads the public user directory.
func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var out []model.User
	if err := c.get(ctx, "/users", &out); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return out, nil
}
