package auth

import (
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/rs/zerolog"
)

const (
	HomePath     = "/"
	LoginPath    = "/login"
	SearchPath   = "/search"
	RequestsPath = "/requests"
	AdminPath    = "/admin"
)

// ErrRouteNotFound is returned for paths outside the route table
var ErrRouteNotFound = errors.New("route not found")

// Route is an entry of the kiosk route table
type Route struct {
	Path          string
	RequiresAuth  bool
	RequiresAdmin bool
	GuestOnly     bool
}

// Routes is the kiosk route table
var Routes = []Route{
	{Path: HomePath, RequiresAuth: true},
	{Path: LoginPath, GuestOnly: true},
	{Path: SearchPath, RequiresAuth: true},
	{Path: RequestsPath, RequiresAuth: true},
	{Path: AdminPath, RequiresAuth: true, RequiresAdmin: true},
}

// Guard is the authentication state the router consults
type Guard interface {
	IsAuthenticated() bool
	IsAdmin() bool
	OnForcedLogout(fn func())
}

// RedirectError reports that the guard sent a navigation elsewhere
type RedirectError struct {
	From string
	To   string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("navigation to %s redirected to %s", e.From, e.To)
}

// Router applies the route guard and tracks the current location
type Router struct {
	guard  Guard
	logger zerolog.Logger

	mu       sync.Mutex
	current  string
	redirect string // Path remembered when a guard sent the user to login
}

// NewRouter creates a router at the login entry point.
// A forced logout sends it back there.
func NewRouter(guard Guard, logger zerolog.Logger) *Router {
	r := &Router{
		guard:   guard,
		logger:  logger,
		current: LoginPath,
	}
	guard.OnForcedLogout(r.forceLogin)
	return r
}

func lookup(path string) (Route, bool) {
	for _, route := range Routes {
		if route.Path == path {
			return route, true
		}
	}
	return Route{}, false
}

func loginWithRedirect(path string) string {
	return LoginPath + "?" + url.Values{"redirect": {path}}.Encode()
}

// Resolve evaluates the guard for a target path and returns where navigation ends up.
// Rules are checked in order: guest-only, authentication, admin.
func (r *Router) Resolve(target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", target, err)
	}
	route, ok := lookup(u.Path)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRouteNotFound, u.Path)
	}

	authenticated := r.guard.IsAuthenticated()
	switch {
	case route.GuestOnly && authenticated:
		return HomePath, nil
	case route.RequiresAuth && !authenticated:
		return loginWithRedirect(target), nil
	case route.RequiresAdmin && !r.guard.IsAdmin():
		return HomePath, nil
	}
	return target, nil
}

// Push navigates to target through the guard and returns the final location
func (r *Router) Push(target string) (string, error) {
	dest, err := r.Resolve(target)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = dest
	if u, err := url.Parse(dest); err == nil && u.Path == LoginPath {
		if redirect := u.Query().Get("redirect"); redirect != "" {
			r.redirect = redirect
		}
	}

	if dest != target {
		r.logger.Debug().Str("from", target).Str("to", dest).Msg("Navigation redirected")
	}
	return dest, nil
}

// Enter navigates to target and fails with a RedirectError when the guard sends the user elsewhere
func (r *Router) Enter(target string) error {
	dest, err := r.Push(target)
	if err != nil {
		return err
	}
	if dest != target {
		return &RedirectError{From: target, To: dest}
	}
	return nil
}

// AfterLogin resumes the remembered path, or home
func (r *Router) AfterLogin() (string, error) {
	r.mu.Lock()
	target := r.redirect
	r.redirect = ""
	r.mu.Unlock()

	if target == "" {
		target = HomePath
	}
	return r.Push(target)
}

// Current returns the current location
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Redirect returns the path remembered for after login
func (r *Router) Redirect() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.redirect
}

func (r *Router) forceLogin() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, err := url.Parse(r.current); err == nil && u.Path != LoginPath {
		r.redirect = r.current
		r.current = loginWithRedirect(r.current)
	} else {
		r.current = LoginPath
	}
	r.logger.Info().Str("location", r.current).Msg("Redirected to login")
}
