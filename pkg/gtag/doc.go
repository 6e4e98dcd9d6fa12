// Package gtag mirrors consent category decisions into a Google Consent Mode
// style signaling sink (gtag / dataLayer).
//
// Category decisions map onto four consent keys:
//
//	analytics_storage  <- analytics
//	ad_storage         <- marketing
//	ad_user_data       <- marketing
//	ad_personalization <- marketing
//
// Functional and essential categories have no signal.
//
// # Adapter
//
// [Adapter] owns a [Sink] and never lets a sink failure escape:
//
//	a := gtag.NewAdapter(gtag.WithMode(gtag.ModeImmediateDefault))
//	a.Init(ctx)                 // announces all-denied defaults
//	a.Apply(ctx, categories)    // update + cookie_consent_update event
//
// In [ModeDeferred] nothing is sent until the first Apply.
//
// # DataLayer
//
// [DataLayer] is an in-memory sink that records the same entries a browser
// dataLayer would receive. It can be embedded into a page with json.Marshal.
package gtag
