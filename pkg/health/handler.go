package health

import (
	"encoding/json"
	"net/http"
	"strings"
)

// LivenessHandler answers OK as long as the process serves requests.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusOK, &Response{Status: StatusHealthy})
	}
}

// ReadinessHandler runs checks on every request and answers 503 if any fails.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	hr := newRunner(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		resp := hr.run(r.Context(), checks)

		status := http.StatusOK
		if !resp.Healthy() {
			status = http.StatusServiceUnavailable
		}
		respond(w, r, status, resp)
	}
}

func respond(w http.ResponseWriter, r *http.Request, status int, resp *Response) {
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(http.StatusText(status)))
}

func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
