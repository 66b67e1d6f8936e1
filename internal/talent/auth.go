package talent

import (
	"context"
	"errors"
	"fmt"
)

const devLoginPath = "/auth/dev_login"

type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
	Token   string `json:"token"`
}

// DevLogin requests a development session from the service.
func (c *Client) DevLogin(ctx context.Context) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.getJSON(ctx, devLoginPath, &resp); err != nil {
		return nil, fmt.Errorf("dev login: %w", err)
	}

	if resp.Token == "" {
		return nil, errors.New("dev login: service returned an empty token")
	}

	return &resp, nil
}
