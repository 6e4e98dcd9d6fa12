package localstore

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"sync"

	"github.com/dmitrymomot/consent/pkg/cookie"
)

// CookieMaxAge keeps the storage cookie alive past the longest consent window (730 days).
const CookieMaxAge = 731 * 24 * 60 * 60

// Cookie is a Storage that keeps values in cookies on the visitor's browser.
// It is bound to a single request/response pair: reads come from the request,
// writes go to the response and are visible to later reads on the same value.
type Cookie struct {
	m       *cookie.Manager
	w       http.ResponseWriter
	r       *http.Request
	pending map[string]*string // nil value = removed
	mu      sync.Mutex
}

// NewCookie creates a cookie-backed storage.
// Values are signed when the manager has a secret, otherwise base64url encoded.
func NewCookie(m *cookie.Manager, w http.ResponseWriter, r *http.Request) *Cookie {
	if m == nil {
		m = cookie.New()
	}
	return &Cookie{m: m, w: w, r: r, pending: make(map[string]*string)}
}

// Get returns the value stored under key.
// A tampered or undecodable cookie reads as ErrNotFound.
func (c *Cookie) Get(_ context.Context, key string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}

	c.mu.Lock()
	v, ok := c.pending[key]
	c.mu.Unlock()
	if ok {
		if v == nil {
			return "", ErrNotFound
		}
		return *v, nil
	}

	if c.m.HasSecret() {
		value, err := c.m.GetSigned(c.r, key)
		switch {
		case err == nil:
			return value, nil
		case errors.Is(err, cookie.ErrNotFound), errors.Is(err, cookie.ErrBadSig):
			return "", ErrNotFound
		default:
			return "", errors.Join(ErrUnavailable, err)
		}
	}

	raw, err := c.m.Get(c.r, key)
	if err != nil {
		return "", ErrNotFound
	}
	value, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return "", ErrNotFound
	}
	return string(value), nil
}

// Set writes value to the response as a long-lived cookie.
func (c *Cookie) Set(_ context.Context, key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}

	if c.m.HasSecret() {
		if err := c.m.SetSigned(c.w, key, value, CookieMaxAge); err != nil {
			return errors.Join(ErrUnavailable, err)
		}
	} else {
		c.m.Set(c.w, key, base64.RawURLEncoding.EncodeToString([]byte(value)), CookieMaxAge)
	}

	c.mu.Lock()
	c.pending[key] = &value
	c.mu.Unlock()
	return nil
}

// Remove expires the cookie.
func (c *Cookie) Remove(_ context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}

	c.m.Delete(c.w, key)

	c.mu.Lock()
	c.pending[key] = nil
	c.mu.Unlock()
	return nil
}

var _ Storage = (*Cookie)(nil)
