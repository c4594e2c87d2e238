package api

import (
	"context"
	"net/http"

	"github.com/justyntemme/libcat/pkg/models"
)

// Authentication methods

// Register creates a new user account. The server does not issue a token here.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	var resp models.RegisterResponse
	err := c.AuthRequest(ctx, "/auth/register", RequestOptions{Method: http.MethodPost, Body: req}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates a user
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.AuthRequest(ctx, "/auth/login", RequestOptions{Method: http.MethodPost, Body: req}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile returns the user owning the stored credential
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.AuthRequest(ctx, "/auth/profile", RequestOptions{}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword changes the password of the authenticated user
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return c.AuthRequest(ctx, "/auth/change-password", RequestOptions{
		Method: http.MethodPost,
		Body: map[string]string{
			"old_password": oldPassword,
			"new_password": newPassword,
		},
	}, nil)
}

// ValidateToken checks the stored credential
func (c *Client) ValidateToken(ctx context.Context) (*models.TokenValidation, error) {
	var resp models.TokenValidation
	if err := c.AuthRequest(ctx, "/auth/validate", RequestOptions{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshToken exchanges token for a new one
func (c *Client) RefreshToken(ctx context.Context, token string) (string, error) {
	var resp map[string]string
	err := c.AuthRequest(ctx, "/auth/refresh", RequestOptions{
		Method: http.MethodPost,
		Body:   map[string]string{"token": token},
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp["token"], nil
}
