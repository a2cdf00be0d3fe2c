package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/amaumene/kioskarr/internal/models"
)

// Login exchanges credentials for a bearer token. It never sends the current token.
func (c *Client) Login(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var resp models.TokenResponse
	err := c.doRequest(ctx, call{
		method:    http.MethodPost,
		route:     "/auth/login",
		path:      "/auth/login",
		form:      form,
		anonymous: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login response carried no access token")
	}
	return &resp, nil
}

// Logout tells the API the current token is no longer used
func (c *Client) Logout(ctx context.Context) error {
	return c.doRequest(ctx, call{
		method: http.MethodPost,
		route:  "/auth/logout",
		path:   "/auth/logout",
	}, nil)
}

// CurrentUser fetches the user owning the current token
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	err := c.doRequest(ctx, call{
		method: http.MethodGet,
		route:  "/auth/me",
		path:   "/auth/me",
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
