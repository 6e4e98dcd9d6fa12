package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// MinSecretLen is the shortest secret WithSecret accepts.
const MinSecretLen = 32

var enc = base64.RawURLEncoding

// Manager reads and writes cookies sharing one set of attributes.
// With a secret configured it can also sign values so that a tampered
// consent record is rejected instead of trusted.
type Manager struct {
	tmpl http.Cookie
	key  []byte
}

// Option configures the Manager.
type Option func(*Manager)

// New returns a Manager writing cookies on path "/" with HttpOnly and
// SameSite=Lax, unless options say otherwise.
func New(opts ...Option) *Manager {
	m := &Manager{tmpl: http.Cookie{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithSecret enables signing. Secrets shorter than MinSecretLen are ignored.
func WithSecret(secret string) Option {
	return func(m *Manager) {
		if len(secret) < MinSecretLen {
			return
		}
		m.key = []byte(secret)
	}
}

func WithDomain(domain string) Option {
	return func(m *Manager) { m.tmpl.Domain = domain }
}

func WithPath(path string) Option {
	return func(m *Manager) { m.tmpl.Path = path }
}

func WithSecure(secure bool) Option {
	return func(m *Manager) { m.tmpl.Secure = secure }
}

// WithHTTPOnly toggles HttpOnly. Consent cookies that page scripts must
// read need it off.
func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) { m.tmpl.HttpOnly = httpOnly }
}

func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) { m.tmpl.SameSite = ss }
}

// HasSecret reports whether SetSigned and GetSigned are usable.
func (m *Manager) HasSecret() bool {
	return len(m.key) > 0
}

// Get returns the raw value of the request cookie name.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	switch {
	case errors.Is(err, http.ErrNoCookie):
		return "", ErrNotFound
	case err != nil:
		return "", err
	}
	return c.Value, nil
}

// Set writes name=value with the manager's attributes.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge int) {
	m.write(w, name, value, m.tmpl.Domain, maxAge)
}

// Delete expires name in the manager's own domain.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	m.Expire(w, name, m.tmpl.Domain)
}

// Expire expires name in the given domain scope; "" is host-only.
func (m *Manager) Expire(w http.ResponseWriter, name, domain string) {
	m.write(w, name, "", domain, -1)
}

// GetSigned returns the verified value of a cookie written by SetSigned.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	if !m.HasSecret() {
		return "", ErrNoSecret
	}
	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.open(raw)
}

// SetSigned writes value together with its HMAC-SHA256 signature.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, maxAge int) error {
	if !m.HasSecret() {
		return ErrNoSecret
	}
	m.write(w, name, m.seal(value), m.tmpl.Domain, maxAge)
	return nil
}

// seal encodes value as base64(value) "." base64(mac).
func (m *Manager) seal(value string) string {
	return enc.EncodeToString([]byte(value)) + "." + enc.EncodeToString(m.mac([]byte(value)))
}

func (m *Manager) open(sealed string) (string, error) {
	encValue, encSig, ok := strings.Cut(sealed, ".")
	if !ok {
		return "", ErrBadSig
	}
	value, err := enc.DecodeString(encValue)
	if err != nil {
		return "", ErrBadSig
	}
	sig, err := enc.DecodeString(encSig)
	if err != nil || !hmac.Equal(sig, m.mac(value)) {
		return "", ErrBadSig
	}
	return string(value), nil
}

func (m *Manager) mac(b []byte) []byte {
	h := hmac.New(sha256.New, m.key)
	h.Write(b)
	return h.Sum(nil)
}

func (m *Manager) write(w http.ResponseWriter, name, value, domain string, maxAge int) {
	c := m.tmpl
	c.Name, c.Value, c.Domain, c.MaxAge = name, value, domain, maxAge
	http.SetCookie(w, &c)
}
