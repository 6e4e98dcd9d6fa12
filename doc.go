// Package consent is a cookie-consent controller: it decides whether a consent
// prompt should be shown, persists the visitor's decision in client-side
// storage and mirrors it into Google Consent Mode style signals.
//
// # Quick Start
//
//	c := consent.New(
//	    consent.WithStorage(localstore.NewMemory()),
//	    consent.WithRegion("US"),
//	)
//	if err := c.Attach(ctx); err != nil {
//	    return err
//	}
//
//	if c.ShouldShowBanner() {
//	    fmt.Println(c.T("banner.title"))
//	    fmt.Println(c.Description())
//	}
//
//	_ = c.AcceptAll(ctx)
//	c.NonEssentialAllowed()                 // true
//	c.CategoryEnabled(consent.Analytics)    // true
//	c.SignalStatus().AnalyticsStorage       // "granted"
//
// # Lifecycle
//
// Attach restores the stored decision. Without one the controller is in
// [PhasePrompting]; AcceptAll, RejectAll and SaveSettings move it to
// [PhaseDecided]. OpenSettings, ToggleCategory and CloseSettings drive the
// settings dialog. Reset forgets the decision.
//
// Calls that are not valid in the current state return [ErrInvalidTransition]
// and change nothing. Toggling [Essential] is always a no-op.
//
// # Persistence
//
// The decision is stored as JSON under the key "gdpr-consent":
//
//	{"timestamp":1700000000000,"accepted":true,"categories":{"essential":true,...}}
//
// It expires after [WithExpirationDays] days, clamped to [30, 730]. Storage
// failures and malformed values never surface: the visitor is simply prompted
// again. Backends live in package localstore (memory, file, cookie).
//
// # Signals
//
// In [ModeImmediateDefault] an all-denied default is announced on Attach,
// before anything else. In [ModeDeferred] nothing is sent until the first
// decision. Every decision sends a consent update and a cookie_consent_update
// event. Sink failures are logged and ignored.
//
// # Notifications
//
// Listeners registered with [WithListener] or Controller.Subscribe receive
// [ConsentChanged], [SettingsRequested] and [CategoryChanged]. Reset emits
// nothing.
//
// # Cookie cleanup
//
// When SaveSettings withdraws a category, cookies whose names contain one of
// its patterns are expired in three domain scopes: host-only, host and .host.
//
// A Controller is not safe for concurrent use; create one per visitor.
package consent
