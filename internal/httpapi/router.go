package httpapi

import (
	"net/http"
)

func Router(h *Handlers, maxInflight int) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.Healthz)
	mux.HandleFunc("/v1/transactions", h.ProcessTransactions) // POST
	mux.HandleFunc("/v1/runs/", h.GetRunByPath)               // GET /v1/runs/{id}

	return withConcurrencyLimit(mux, maxInflight)
}

func withConcurrencyLimit(next http.Handler, max int) http.Handler {
	if max <= 0 {
		max = 64
	}
	sem := make(chan struct{}, max)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
			next.ServeHTTP(w, r)
		default:
			// Fast fail instead of queueing forever.
			writeErr(w, http.StatusServiceUnavailable, "server busy")
		}
	})
}
