package session

import (
	"net/http"
	"time"
)

const (
	// SecureCookieName requires Secure, Path=/ and no Domain.
	SecureCookieName = "__Host-session"
	// PlainCookieName is used when cookies are not marked Secure, since
	// browsers reject __Host- cookies without it.
	PlainCookieName = "session"
)

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Path     string
	HttpOnly bool
	Secure   bool
	SameSite http.SameSite
	Domain   string // must be empty for __Host- cookies
}

// Name returns the cookie name matching the Secure flag.
func (o CookieOptions) Name() string {
	if o.Secure {
		return SecureCookieName
	}
	return PlainCookieName
}

func (o CookieOptions) normalize() CookieOptions {
	if o.Path == "" {
		o.Path = "/"
	}
	// HttpOnly is always on; scripts never read the session id.
	o.HttpOnly = true
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	if o.Secure {
		o.Domain = ""
		o.Path = "/"
	}
	return o
}

// SetCookie issues the session cookie to the client.
func SetCookie(w http.ResponseWriter, sessionID string, expiresAt time.Time, opts CookieOptions) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name(),
		Value:    sessionID,
		Path:     opts.Path,
		Domain:   opts.Domain,
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: opts.HttpOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// ClearCookie removes the session cookie from the client.
func ClearCookie(w http.ResponseWriter, opts CookieOptions) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name(),
		Value:    "",
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   -1,
		HttpOnly: opts.HttpOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// ReadCookie returns the session id carried by r, if any.
func ReadCookie(r *http.Request, opts CookieOptions) (string, bool) {
	c, err := r.Cookie(opts.Name())
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
