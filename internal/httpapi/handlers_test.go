package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/llvar-ledger/internal/models"
	"github.com/sheikh-saqib/llvar-ledger/internal/processor"
	"github.com/sheikh-saqib/llvar-ledger/internal/storage"
	"github.com/sheikh-saqib/llvar-ledger/internal/storage/memory"
)

func TestHTTPStatusForErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"notfound", fmt.Errorf("run x: %w", storage.ErrNotFound), http.StatusNotFound},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"canceled", context.Canceled, http.StatusRequestTimeout},
		{"other", errors.New("x"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := httpStatusForErr(tc.err)
			if got != tc.want {
				t.Fatalf("got %d want %d", got, tc.want)
			}
		})
	}
}

func TestPublicErrMessage(t *testing.T) {
	assert.Equal(t, "internal error", publicErrMessage(500, errors.New("pq: connection refused")))
	assert.Equal(t, "boom", publicErrMessage(404, errors.New("boom")))
}

func newTestServer(t *testing.T) (*httptest.Server, *memory.MemoryRunStore) {
	t.Helper()
	store := memory.NewMemoryRunStore()
	svc := processor.NewService(processor.WithRunStore(store))
	srv := httptest.NewServer(Router(NewHandlers(svc, store, nil), 4))
	t.Cleanup(srv.Close)
	return srv, store
}

func postTransactions(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url+"/v1/transactions", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestProcessTransactions(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postTransactions(t, srv.URL, `{"transactions":[
		"10100712345670000020000",
		"INVALID_MESSAGE",
		"1010064447770000010000",
		"10200712345670000002000"
	]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body models.ProcessTransactionsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	require.Len(t, body.BankAccounts, 2)
	assert.Equal(t, "1234567", body.BankAccounts[0].AccountNumber)
	assert.Equal(t, int64(18000), body.BankAccounts[0].BalanceCents)
	assert.Equal(t, "180", body.BankAccounts[0].BalanceDollars.String())
	assert.Equal(t, "444777", body.BankAccounts[1].AccountNumber)
	assert.Equal(t, int64(10000), body.BankAccounts[1].BalanceCents)

	assert.Equal(t, 1, body.Stats.Malformed)
	assert.Equal(t, models.RecordMalformed, body.Results[1].Status)
	assert.NotEmpty(t, body.RunID)
	assert.Len(t, body.Digest, 64)
}

func TestProcessTransactionsBadBody(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, body := range []string{`not json`, `{"transactions":"nope"}`, `{"records":[]}`} {
		resp := postTransactions(t, srv.URL, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestProcessTransactionsMethod(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v1/transactions")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestGetRun(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postTransactions(t, srv.URL, `{"transactions":["10101088888888880000010000"]}`)
	var processed models.ProcessTransactionsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&processed))

	get, err := http.Get(srv.URL + "/v1/runs/" + processed.RunID)
	require.NoError(t, err)
	defer get.Body.Close()
	require.Equal(t, http.StatusOK, get.StatusCode)

	var run models.Run
	require.NoError(t, json.NewDecoder(get.Body).Decode(&run))
	assert.Equal(t, processed.RunID, run.ID)
	assert.Equal(t, processed.Digest, run.Digest)
	require.Len(t, run.Accounts, 1)
	assert.Equal(t, "8888888888", run.Accounts[0].AccountNumber)
}

func TestGetRunNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/v1/runs/unknown", "/v1/runs/", "/v1/runs/a/b"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestConcurrencyLimit(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entered <- struct{}{}
		<-release
		w.WriteHeader(http.StatusOK)
	})
	h := withConcurrencyLimit(slow, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	}()
	<-entered

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	close(release)
	wg.Wait()
}
