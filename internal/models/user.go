package models

import "time"

// User is an account of the kiosk
type User struct {
	ID                 int64      `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email,omitempty"`
	PlexUsername       string     `json:"plex_username,omitempty"`
	Role               UserRole   `json:"role"`
	IsActive           bool       `json:"is_active"`
	DailyRequestsCount int        `json:"daily_requests_count"`
	CreatedAt          time.Time  `json:"created_at"`
	LastLogin          *time.Time `json:"last_login,omitempty"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// TokenResponse is the body returned by POST /auth/login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// UserUpdate is the admin patch for PATCH /admin/users/{id}
type UserUpdate struct {
	Email    *string   `json:"email,omitempty"`
	IsActive *bool     `json:"is_active,omitempty"`
	Role     *UserRole `json:"role,omitempty"`
}

// Settings is the opaque admin settings document
type Settings map[string]any
