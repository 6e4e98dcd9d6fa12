package cookie

import (
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
)

// Jar is the set of cookies visible to the current page, with the ability to
// expire them. It is the narrow view the consent controller needs for cleanup.
type Jar interface {
	// Names returns the names of all currently set cookies.
	Names() []string

	// Host returns the bare hostname the cookies belong to.
	Host() string

	// Expire removes the cookie name set for the given domain scope.
	// An empty domain targets a host-only cookie.
	Expire(name, domain string)
}

// Scopes returns the domain scopes a cookie may have been set with:
// no domain, the bare hostname and the leading-dot hostname.
func Scopes(host string) []string {
	if host == "" {
		return []string{""}
	}
	return []string{"", host, "." + host}
}

// Matches reports whether name contains any of the patterns.
func Matches(name string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(name, p) {
			return true
		}
	}
	return false
}

// Purge expires every cookie whose name matches one of the patterns, in every
// domain scope. Returns the sorted names that were targeted.
//
// Cleanup is best-effort: HttpOnly cookies invisible to the page and cookies
// of unrelated domains cannot be reached.
func Purge(j Jar, patterns []string) []string {
	if j == nil || len(patterns) == 0 {
		return nil
	}

	var purged []string
	for _, name := range j.Names() {
		if !Matches(name, patterns) {
			continue
		}
		for _, domain := range Scopes(j.Host()) {
			j.Expire(name, domain)
		}
		purged = append(purged, name)
	}

	slices.Sort(purged)
	return slices.Compact(purged)
}

// HTTPJar is a Jar over a single request/response pair.
// Names come from the request, expirations are written to the response.
type HTTPJar struct {
	m       *Manager
	w       http.ResponseWriter
	r       *http.Request
	expired map[string]bool
}

// NewHTTPJar binds a Jar to the request and response.
// If m is nil, a Manager with default attributes is used.
func NewHTTPJar(m *Manager, w http.ResponseWriter, r *http.Request) *HTTPJar {
	if m == nil {
		m = New()
	}
	return &HTTPJar{m: m, w: w, r: r, expired: make(map[string]bool)}
}

// Names returns the request cookie names, minus the ones expired through this jar.
func (j *HTTPJar) Names() []string {
	var names []string
	for _, c := range j.r.Cookies() {
		if j.expired[c.Name] {
			continue
		}
		names = append(names, c.Name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Host returns the request host without port.
func (j *HTTPJar) Host() string {
	host := j.r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(host, ".")
}

// Expire writes an expired Set-Cookie header for name in the domain scope.
func (j *HTTPJar) Expire(name, domain string) {
	j.m.Expire(j.w, name, domain)
	j.expired[name] = true
}

// MemoryJar is an in-process Jar. Cookies are keyed by name and domain scope,
// like a browser keeps them.
type MemoryJar struct {
	host    string
	cookies map[jarKey]string
	mu      sync.Mutex
}

type jarKey struct {
	name   string
	domain string
}

// NewMemoryJar creates an empty jar for host.
func NewMemoryJar(host string) *MemoryJar {
	return &MemoryJar{host: host, cookies: make(map[jarKey]string)}
}

// Set stores a cookie in the domain scope. An empty domain means host-only.
func (j *MemoryJar) Set(name, value, domain string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies[jarKey{name: name, domain: domain}] = value
}

// Get returns the value of the first cookie named name in any scope.
func (j *MemoryJar) Get(name string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, domain := range Scopes(j.host) {
		if v, ok := j.cookies[jarKey{name: name, domain: domain}]; ok {
			return v, true
		}
	}
	for k, v := range j.cookies {
		if k.name == name {
			return v, true
		}
	}
	return "", false
}

// Names returns the sorted, unique cookie names.
func (j *MemoryJar) Names() []string {
	j.mu.Lock()
	defer j.mu.Unlock()

	names := make([]string, 0, len(j.cookies))
	for k := range j.cookies {
		names = append(names, k.name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Host returns the jar's host.
func (j *MemoryJar) Host() string {
	return j.host
}

// Expire deletes the cookie stored for exactly that name and domain scope.
func (j *MemoryJar) Expire(name, domain string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.cookies, jarKey{name: name, domain: domain})
}

var (
	_ Jar = (*HTTPJar)(nil)
	_ Jar = (*MemoryJar)(nil)
)
