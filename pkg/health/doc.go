// Package health provides liveness and readiness handlers for the consent
// HTTP surface.
//
// [LivenessHandler] always answers OK. [ReadinessHandler] runs a set of named
// [Checks] in parallel and answers 503 when any of them fails. Checks for the
// consent backends live next to the handlers:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "storage": health.StorageCheck(store),
//	    "catalog": health.CatalogCheck(catalog, "banner.title"),
//	}, health.WithLogger(log)))
//
// Responses are plain text unless the client asks for JSON with an
// Accept: application/json header or ?format=json.
package health
