package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/amaumene/kioskarr/internal/client"
	"github.com/amaumene/kioskarr/internal/i18n"
	"github.com/amaumene/kioskarr/internal/metrics"
	"github.com/amaumene/kioskarr/internal/models"
	"github.com/amaumene/kioskarr/internal/session"
)

// API is the part of the kiosk API the gate needs
type API interface {
	Login(ctx context.Context, username, password string) (*models.TokenResponse, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
}

// Gate owns the authentication state of the kiosk: it is the only writer of the
// session besides the transport expiring a rejected token.
type Gate struct {
	api     API
	session *session.Session
	tokens  session.TokenStore
	tr      *i18n.Translator
	metrics *metrics.Metrics
	logger  zerolog.Logger

	loggingOut atomic.Bool

	mu             sync.Mutex
	err            string
	onForcedLogout []func()
}

// NewGate creates the gate and subscribes it to session expiry
func NewGate(api API, sess *session.Session, tokens session.TokenStore, tr *i18n.Translator, m *metrics.Metrics, logger zerolog.Logger) *Gate {
	if m == nil {
		m = metrics.New(nil)
	}
	g := &Gate{
		api:     api,
		session: sess,
		tokens:  tokens,
		tr:      tr,
		metrics: m,
		logger:  logger,
	}
	sess.OnExpire(g.handleExpired)
	return g
}

// OnForcedLogout registers a listener called after the API rejected the session
func (g *Gate) OnForcedLogout(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onForcedLogout = append(g.onForcedLogout, fn)
}

// handleExpired reacts to the API rejecting the token. Only an established
// session, rejected outside of Logout, counts as a forced logout.
func (g *Gate) handleExpired(user *models.User) {
	g.deleteToken()
	if user == nil || g.loggingOut.Load() {
		g.logger.Debug().Msg("Token rejected before the session was established")
		return
	}

	g.logger.Warn().Str("username", user.Username).Msg("Session expired, logging out")
	g.metrics.ForcedLogouts.Inc()

	g.mu.Lock()
	listeners := make([]func(), len(g.onForcedLogout))
	copy(listeners, g.onForcedLogout)
	g.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func (g *Gate) deleteToken() {
	if err := g.tokens.DeleteToken(); err != nil {
		g.logger.Error().Err(err).Msg("Failed to delete persisted token")
	}
}

// Restore installs a persisted token and loads its user.
// Any failure discards the token and leaves the session unauthenticated.
func (g *Gate) Restore(ctx context.Context) bool {
	token, err := g.tokens.LoadToken()
	if err != nil {
		if !errors.Is(err, session.ErrNoToken) {
			g.logger.Error().Err(err).Msg("Failed to load persisted token")
		}
		return false
	}

	g.session.SetToken(token)
	user, err := g.api.CurrentUser(ctx)
	if err != nil {
		g.logger.Info().Err(err).Msg("Persisted session is no longer valid")
		g.session.Clear()
		g.deleteToken()
		return false
	}

	g.session.SetUser(user)
	g.logger.Debug().Str("username", user.Username).Msg("Session restored")
	return true
}

// Login exchanges credentials for a session. On failure the previous session is untouched.
func (g *Gate) Login(ctx context.Context, username, password string) bool {
	g.ClearError()

	resp, err := g.api.Login(ctx, username, password)
	if err != nil {
		msg := client.MessageOf(err, g.tr.T(i18n.MsgLoginFailed))
		g.logger.Warn().Err(err).Str("username", username).Msg("Login failed")
		g.setError(msg)
		return false
	}

	g.session.Set(resp.AccessToken, &resp.User)
	if err := g.tokens.SaveToken(resp.AccessToken); err != nil {
		g.logger.Error().Err(err).Msg("Failed to persist token")
	}

	g.logger.Info().
		Str("username", resp.User.Username).
		Str("role", string(resp.User.Role)).
		Msg("Logged in")
	return true
}

// Logout ends the session. The remote call is best effort; local state is always cleared.
func (g *Gate) Logout(ctx context.Context) {
	token, user := g.session.Snapshot()
	if token != "" {
		g.loggingOut.Store(true)
		if err := g.api.Logout(ctx); err != nil {
			g.logger.Debug().Err(err).Msg("Remote logout failed")
		}
		g.loggingOut.Store(false)
	}
	g.session.Clear()
	g.deleteToken()

	event := g.logger.Info()
	if user != nil {
		event = event.Str("username", user.Username)
	}
	event.Msg("Logged out")
}

// FetchCurrentUser refreshes the user of the current token
func (g *Gate) FetchCurrentUser(ctx context.Context) bool {
	g.ClearError()

	user, err := g.api.CurrentUser(ctx)
	if err != nil {
		g.setError(client.MessageOf(err, g.tr.T(i18n.MsgLoadUserFailed)))
		return false
	}
	g.session.SetUser(user)
	return true
}

// IsAuthenticated reports whether a token is present and its user is loaded
func (g *Gate) IsAuthenticated() bool {
	return g.session.IsAuthenticated()
}

// IsAdmin reports whether the current user is an admin
func (g *Gate) IsAdmin() bool {
	return g.session.IsAdmin()
}

// User returns the current user, nil when not loaded
func (g *Gate) User() *models.User {
	return g.session.User()
}

// Error returns the last login or user-load error message
func (g *Gate) Error() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

// ClearError dismisses the current error
func (g *Gate) ClearError() {
	g.setError("")
}

func (g *Gate) setError(msg string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = msg
}
