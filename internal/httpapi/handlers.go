package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/llvar-ledger/internal/interfaces"
	"github.com/sheikh-saqib/llvar-ledger/internal/models"
	"github.com/sheikh-saqib/llvar-ledger/internal/processor"
	"github.com/sheikh-saqib/llvar-ledger/internal/storage"
)

// maxBodyBytes bounds a process request body.
const maxBodyBytes = 8 << 20

type Handlers struct {
	svc    *processor.Service
	runs   interfaces.RunStore
	logger *zap.Logger
}

func NewHandlers(svc *processor.Service, runs interfaces.RunStore, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{svc: svc, runs: runs, logger: logger}
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func httpStatusForErr(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func publicErrMessage(code int, err error) string {
	// Don't leak internals on 5xx.
	if code >= 500 {
		return "internal error"
	}
	return err.Error()
}

// ProcessTransactions handles POST /v1/transactions.
// Bad records never fail the request; they show up in the results.
func (h *Handlers) ProcessTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req models.ProcessTransactionsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	// Persistence and publishing happen after the ledger is done; give them
	// a bounded window.
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	resp := h.svc.Process(ctx, req)
	writeJSON(w, http.StatusOK, resp)
}

// GET /v1/runs/{id}
func (h *Handlers) GetRunByPath(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/runs/")
	if id == "" || strings.Contains(id, "/") {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	run, err := h.runs.GetRun(ctx, id)
	if err != nil {
		code := httpStatusForErr(err)
		if code >= 500 {
			h.logger.Error("failed to load run", zap.String("run_id", id), zap.Error(err))
		}
		writeErr(w, code, publicErrMessage(code, err))
		return
	}

	writeJSON(w, http.StatusOK, run)
}
