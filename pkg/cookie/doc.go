// Package cookie provides HTTP cookie management with optional signing, and a
// [Jar] abstraction used to clean up cookies after consent is withdrawn.
//
// # Manager
//
// Plain cookies work without a secret:
//
//	m := cookie.New()
//	m.Set(w, "theme", "dark", 86400)
//	value, err := m.Get(r, "theme")
//
// Signed cookies detect tampering with HMAC-SHA256 and need a 32+ byte secret:
//
//	m := cookie.New(cookie.WithSecret("your-32+-byte-secret-key-here!!"))
//	err := m.SetSigned(w, "gdpr-consent", payload, 86400)
//	value, err := m.GetSigned(r, "gdpr-consent")
//
// # Jar
//
// A [Jar] lists the cookies visible to the page and expires them per domain
// scope. [HTTPJar] binds to a request/response pair, [MemoryJar] keeps cookies
// in process memory.
//
// [Purge] expires every cookie whose name contains one of the given patterns in
// all three scopes a script may have used: no domain, "example.com" and
// ".example.com":
//
//	jar := cookie.NewHTTPJar(m, w, r)
//	removed := cookie.Purge(jar, []string{"_ga", "_gid"})
//
// # Configuration
//
//   - [WithSecret]: Set the secret for signing (32+ bytes)
//   - [WithDomain]: Set the cookie domain
//   - [WithPath]: Set the cookie path (default: "/")
//   - [WithSecure]: Set the Secure flag (HTTPS only)
//   - [WithHTTPOnly]: Set the HttpOnly flag (default: true)
//   - [WithSameSite]: Set the SameSite attribute (default: Lax)
//
// # Errors
//
//   - [ErrNotFound]: Cookie does not exist
//   - [ErrNoSecret]: Secret required for signed operations
//   - [ErrBadSig]: Signature verification failed (tampering detected)
package cookie
