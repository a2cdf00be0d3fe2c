package client

import (
	"context"
	"net/http"

	"github.com/amaumene/kioskarr/internal/models"
)

// Settings fetches the admin settings document
func (c *Client) Settings(ctx context.Context) (models.Settings, error) {
	settings := models.Settings{}
	err := c.doRequest(ctx, call{
		method: http.MethodGet,
		route:  "/admin/settings",
		path:   "/admin/settings",
	}, &settings)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateSettings replaces the admin settings document
func (c *Client) UpdateSettings(ctx context.Context, settings models.Settings) (models.Settings, error) {
	updated := models.Settings{}
	err := c.doRequest(ctx, call{
		method: http.MethodPut,
		route:  "/admin/settings",
		path:   "/admin/settings",
		body:   settings,
	}, &updated)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Users lists the kiosk accounts
func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.doRequest(ctx, call{
		method: http.MethodGet,
		route:  "/admin/users",
		path:   "/admin/users",
	}, &users)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser removes an account
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.doRequest(ctx, call{
		method: http.MethodDelete,
		route:  "/admin/users/{id}",
		path:   idPath("/admin/users", id),
	}, nil)
}

// UpdateUser patches an account
func (c *Client) UpdateUser(ctx context.Context, id int64, patch models.UserUpdate) (*models.User, error) {
	var user models.User
	err := c.doRequest(ctx, call{
		method: http.MethodPatch,
		route:  "/admin/users/{id}",
		path:   idPath("/admin/users", id),
		body:   patch,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
