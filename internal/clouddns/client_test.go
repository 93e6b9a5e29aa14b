package clouddns

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"nathanbeddoewebdev/dnsm/internal/domain"
)

// --- Test helpers ---

// newTestClient creates a Client pointed at the given test server.
func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	return New("test-user", "test-key", "1234", WithEndpoint(serverURL))
}

// testWaitConfig polls fast enough for tests to finish instantly.
func testWaitConfig() WaitConfig {
	return WaitConfig{Interval: 1, MaxAttempts: 10, MaxTransientErrors: 3}
}

// step is one scripted response.
type step struct {
	code int
	body any
}

// scriptedServer serves the steps in order, then keeps repeating the last
// one. It counts every request it sees.
func scriptedServer(t *testing.T, calls *atomic.Int64, steps ...step) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1) - 1
		if n >= int64(len(steps)) {
			n = int64(len(steps)) - 1
		}
		s := steps[n]
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.code)
		if s.body != nil {
			if err := json.NewEncoder(w).Encode(s.body); err != nil {
				t.Errorf("failed to encode test response: %v", err)
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// scriptedHandlerServer is scriptedServer with a request inspection hook.
func scriptedHandlerServer(t *testing.T, inspect func(*http.Request), steps ...step) *httptest.Server {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inspect(r)
		n := calls.Add(1) - 1
		if n >= int64(len(steps)) {
			n = int64(len(steps)) - 1
		}
		s := steps[n]
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.code)
		if s.body != nil {
			if err := json.NewEncoder(w).Encode(s.body); err != nil {
				t.Errorf("failed to encode test response: %v", err)
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// staticServer always answers with the given status code and JSON body.
func staticServer(t *testing.T, code int, body any) *httptest.Server {
	t.Helper()
	var calls atomic.Int64
	return scriptedServer(t, &calls, step{code, body})
}

// runningStatus returns a minimal accepted-response body.
func runningStatus(jobID string) map[string]any {
	return map[string]any{
		"jobId":       jobID,
		"callbackUrl": "https://dns.example/v1.0/1234/status/" + jobID,
		"status":      "RUNNING",
	}
}

// completedStatus returns a terminal success body with the given payload.
func completedStatus(jobID string, response map[string]any) map[string]any {
	return map[string]any{
		"jobId":    jobID,
		"status":   "COMPLETED",
		"response": response,
	}
}

// --- Transport tests ---

func TestClient_AttachesCredentialsAndAccount(t *testing.T) {
	var gotPath, gotUser, gotKey, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser = r.Header.Get("X-Auth-User")
		gotKey = r.Header.Get("X-Auth-Key")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domainListBody{})
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL)
	if _, err := c.ListDomains(context.Background(), ListDomainsOpts{}); err != nil {
		t.Fatalf("ListDomains failed: %v", err)
	}

	if gotPath != "/1234/domains" {
		t.Errorf("path = %q, want %q", gotPath, "/1234/domains")
	}
	if gotUser != "test-user" {
		t.Errorf("X-Auth-User = %q, want %q", gotUser, "test-user")
	}
	if gotKey != "test-key" {
		t.Errorf("X-Auth-Key = %q, want %q", gotKey, "test-key")
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
}

func TestClient_TransportErrorPropagated(t *testing.T) {
	// Point at a closed server to force a connection error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.ListDomains(context.Background(), ListDomainsOpts{})
	if err == nil {
		t.Fatal("expected transport error, got nil")
	}
	var use *UnexpectedStatusError
	if errors.As(err, &use) {
		t.Errorf("transport failure must not be an UnexpectedStatusError, got %v", err)
	}
}

func TestClient_SentinelClassification(t *testing.T) {
	cases := []struct {
		code int
		want error
	}{
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusForbidden, domain.ErrUnauthorized},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusConflict, domain.ErrConflict},
		{http.StatusTooManyRequests, domain.ErrRateLimited},
	}

	for _, tc := range cases {
		srv := staticServer(t, tc.code, map[string]any{"message": "nope"})
		c := newTestClient(t, srv.URL)

		_, err := c.GetDomain(context.Background(), "42", false)
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: expected errors.Is(%v), got %v", tc.code, tc.want, err)
		}
	}
}

func TestSubmit_Non202SurfacesRawBody(t *testing.T) {
	srv := staticServer(t, http.StatusBadRequest, map[string]any{
		"code":    400,
		"message": "validation failure",
	})
	c := newTestClient(t, srv.URL)

	st, err := c.CreateDomains(context.Background(), []CreateDomainOpts{
		{Name: "example.com", EmailAddress: "admin@example.com"},
	})
	if st != nil {
		t.Error("no Status must be constructed on a non-202 response")
	}

	var use *UnexpectedStatusError
	if !errors.As(err, &use) {
		t.Fatalf("expected UnexpectedStatusError, got %v", err)
	}
	if use.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", use.StatusCode)
	}
	if !strings.Contains(string(use.Body), "validation failure") {
		t.Errorf("Body = %q, want the raw response body attached", use.Body)
	}
}

func TestSubmit_202MissingJobID(t *testing.T) {
	srv := staticServer(t, http.StatusAccepted, map[string]any{"status": "RUNNING"})
	c := newTestClient(t, srv.URL)

	_, err := c.CreateDomains(context.Background(), []CreateDomainOpts{
		{Name: "example.com", EmailAddress: "admin@example.com"},
	})
	if err == nil {
		t.Fatal("expected error for accepted response without jobId")
	}
}
