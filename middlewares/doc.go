// Package middlewares provides net/http middleware for serving the consent
// controller.
//
// # Consent
//
// Consent attaches a controller to each request. The decision is stored in a
// cookie named "gdpr-consent" (signed when the cookie manager has a secret),
// withdrawn categories expire their cookies through Set-Cookie headers, the
// locale comes from Accept-Language and the region from CF-IPCountry.
//
//	r := chi.NewRouter()
//	r.Use(middlewares.RequestID(), middlewares.Recover(), middlewares.Consent(
//	    middlewares.WithConsentCookieManager(cookie.New(cookie.WithSecret(secret))),
//	    middlewares.WithConsentOptions(consent.WithExpirationDays(180)),
//	))
//	r.Post("/consent/accept", func(w http.ResponseWriter, r *http.Request) {
//	    c := middlewares.GetConsent(r.Context())
//	    if err := c.AcceptAll(r.Context()); err != nil {
//	        http.Error(w, err.Error(), http.StatusConflict)
//	    }
//	})
//
// Controller state changes must happen before the response body is written,
// since they are delivered as cookies.
//
// # CSRF
//
// CSRF guards the consent endpoints with gorilla/csrf. Responses should echo
// CSRFToken(r) in the X-CSRF-Token header so that scripts can send it back.
// Requests with a JSON body are not checked.
//
// # Request ID
//
// RequestID reuses a well-formed upstream X-Request-ID or generates a UUID. Use
// RequestIDExtractor with logger.WithExtractors to add request_id to logs.
//
// # Recover
//
// Recover turns handler panics into a logged 500 response.
package middlewares
