package cookie

import (
	"errors"
	"net/http"
	"time"

	"github.com/gfschwingel/coppers/pkg/environment"
)

// ErrCookieNotFound is returned by Get when the request carries no cookie
// with the requested name.
var ErrCookieNotFound = errors.New("cookie: not found")

// Config holds the transport attributes applied to every cookie the
// manager writes. Secure and SameSite are derived from the deployment
// environment unless overridden: cross-origin deployments need
// Secure + SameSite=None, local development needs Lax over plain HTTP.
type Config struct {
	Path     string `env:"COOKIE_PATH" envDefault:"/"`
	Domain   string `env:"COOKIE_DOMAIN" envDefault:""`
	HTTPOnly bool   `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
}

// Manager writes and clears cookies with a fixed attribute set. Set and
// Clear use identical attributes: browsers silently ignore a deletion
// whose path, domain, or security attributes differ from the original.
type Manager struct {
	path     string
	domain   string
	httpOnly bool
	secure   bool
	sameSite http.SameSite
}

// New creates a Manager for the given environment. Production and staging
// get Secure cookies with SameSite=None so the credential survives
// cross-site requests from the hosted frontend; development keeps Lax.
func New(cfg Config, env environment.Environment) *Manager {
	m := &Manager{
		path:     cfg.Path,
		domain:   cfg.Domain,
		httpOnly: cfg.HTTPOnly,
		secure:   env.IsProduction(),
		sameSite: http.SameSiteLaxMode,
	}
	if env.IsProduction() {
		m.sameSite = http.SameSiteNoneMode
	}
	if m.path == "" {
		m.path = "/"
	}
	return m
}

// Set writes a cookie expiring at the given absolute time.
func (m *Manager) Set(w http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		Expires:  expires,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	})
}

// Get returns the named cookie's value from the request.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Clear overwrites the named cookie with an empty, already-expired value
// using the same attributes as Set.
func (m *Manager) Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.path,
		Domain:   m.domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	})
}
