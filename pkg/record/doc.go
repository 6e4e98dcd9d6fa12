// Package record defines the persisted consent record and the Store that
// reads, validates, expires and writes it.
//
// # Record
//
// One record per origin, stored as JSON under the fixed key "gdpr-consent":
//
//	{"timestamp":1735689600000,"accepted":true,
//	 "categories":{"essential":true,"functional":true,"analytics":false,"marketing":false}}
//
// Categories is optional; legacy records carry only the accepted flag and are
// back-filled uniformly by [Record.EffectiveCategories]. The essential category
// is always true.
//
// # Store
//
//	s := record.NewStore(localstore.NewMemory(),
//	    record.WithExpirationDays(180),
//	    record.WithLogger(log),
//	)
//	if rec := s.Read(ctx); rec != nil {
//	    // valid, unexpired decision
//	}
//
// The expiration window is clamped to [30, 730] days without notice. A record
// is expired when its age in days is strictly greater than the window.
//
// Storage failures and malformed data never surface as errors: they are logged
// and the store behaves as if no consent exists.
package record
