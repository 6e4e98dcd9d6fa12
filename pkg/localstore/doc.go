// Package localstore provides client-side key-value storage backends for the
// consent record, modelled on the browser's localStorage.
//
// All backends implement [Storage]:
//
//   - Get(ctx, key) (string, error): returns [ErrNotFound] when the key is absent
//   - Set(ctx, key, value) error: stores a string value
//   - Remove(ctx, key) error: deletes a key, removing an absent key is not an error
//
// # Backends
//
// [Memory] keeps values in process memory. An optional quota mimics the
// browser's storage limit and makes Set fail with [ErrQuotaExceeded]:
//
//	s := localstore.NewMemory(localstore.WithQuota(5 << 20))
//
// [File] keeps one file per key inside a profile directory. Writes are atomic
// (temp file + rename):
//
//	s, err := localstore.NewFile("/home/user/.config/consent")
//
// [Cookie] keeps values in a cookie on the visitor's browser, bound to a single
// request/response pair. With a cookie secret the value is signed:
//
//	m := cookie.New(cookie.WithSecret(secret))
//	s := localstore.NewCookie(m, w, r)
//
// [Unavailable] always fails with [ErrUnavailable]; it stands in for storage
// disabled by the visitor.
//
// # Errors
//
//   - [ErrNotFound]: key does not exist
//   - [ErrQuotaExceeded]: value does not fit the configured quota
//   - [ErrUnavailable]: storage is disabled
//   - [ErrInvalidKey]: key is empty or contains path separators
package localstore
