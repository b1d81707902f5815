package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func newTestClient(serverURL string) *Client {
	c := New(Options{BaseURL: serverURL, Token: "tok"})
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	c.backoffs = []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}
	return c
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get_mbti_by_token" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("language"); got != "ko" {
			t.Errorf("unexpected language: %q", got)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok" {
			t.Errorf("unexpected authorization: %s", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"mbti":"ENFP"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL + "/")
	var out struct {
		MBTI string `json:"mbti"`
	}
	err := c.GetJSON(context.Background(), "/get_mbti_by_token", url.Values{"language": {"ko"}}, &out)
	if err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if out.MBTI != "ENFP" {
		t.Errorf("mbti = %q, want ENFP", out.MBTI)
	}
}

func TestGetJSONUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	err := newTestClient(server.URL).GetJSON(context.Background(), "x", nil, &struct{}{})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	var out []any
	if err := newTestClient(server.URL).GetJSON(context.Background(), "posts", nil, &out); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestGetJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	err := newTestClient(server.URL).GetJSON(context.Background(), "posts", nil, &struct{}{})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", statusErr.StatusCode)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestGetJSONRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := newTestClient(server.URL).GetJSON(context.Background(), "posts", nil, &struct{}{})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected wrapped 502 StatusError, got %v", err)
	}
	if got := calls.Load(); got != 4 {
		t.Errorf("calls = %d, want 4", got)
	}
}

func TestGetJSONCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	c.backoffs = []time.Duration{time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.GetJSON(ctx, "posts", nil, &struct{}{})
	if err == nil || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestGetJSONBadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	if err := newTestClient(server.URL).GetJSON(context.Background(), "posts", nil, &struct{}{}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestPostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		var in struct {
			Answers []string `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if len(in.Answers) != 2 || in.Answers[1] != "혼자" {
			t.Errorf("answers = %v", in.Answers)
		}
		w.Write([]byte(`{"mbti":"INFP"}`))
	}))
	defer server.Close()

	var out struct {
		MBTI string `json:"mbti"`
	}
	in := map[string][]string{"answers": {"산", "혼자"}}
	if err := newTestClient(server.URL).PostJSON(context.Background(), "/rag_recommend", nil, in, &out); err != nil {
		t.Fatalf("PostJSON failed: %v", err)
	}
	if out.MBTI != "INFP" {
		t.Errorf("mbti = %q, want INFP", out.MBTI)
	}
}

func TestPostJSONResendsBodyOnRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in["k"] != "v" {
			t.Errorf("attempt %d: body = %v, err = %v", calls.Load()+1, in, err)
		}
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	if err := newTestClient(server.URL).PostJSON(context.Background(), "x", nil, map[string]string{"k": "v"}, nil); err != nil {
		t.Fatalf("PostJSON failed: %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("calls = %d, want 2", n)
	}
}
