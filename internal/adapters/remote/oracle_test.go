package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"feedback_analyzer/internal/adapters/remote"
)

func TestOracle_Score(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Text string }
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Text != "dirty car" {
			t.Errorf("unexpected text %q", req.Text)
		}
		_ = json.NewEncoder(w).Encode(map[string]float64{"polarity": -1.7, "subjectivity": 0.8})
	}))
	defer ts.Close()

	o, err := remote.New(ts.URL, 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got, err := o.Score(ctx, "dirty car")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Polarity != -1 || got.Subjectivity != 0.8 {
		t.Fatalf("unexpected score (polarity should clamp): %+v", got)
	}
}

func TestOracle_BlankTextSkipsCall(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer ts.Close()

	o, _ := remote.New(ts.URL, 100)
	got, err := o.Score(context.Background(), "  ")
	if err != nil || got.Polarity != 0 || got.Subjectivity != 0 {
		t.Fatalf("expected zero score, got %+v err=%v", got, err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Fatalf("expected no calls, got %d", hits)
	}
}

func TestOracle_FailuresAreNotRetried(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	o, _ := remote.New(ts.URL, 100)
	_, err := o.Score(context.Background(), "x")
	if !errors.Is(err, remote.ErrBadStatus) {
		t.Fatalf("expected ErrBadStatus, got %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected exactly one call, got %d", n)
	}
}

func TestOracle_MissingFields(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"polarity": 0.2}`))
	}))
	defer ts.Close()

	o, _ := remote.New(ts.URL, 100)
	_, err := o.Score(context.Background(), "x")
	if !errors.Is(err, remote.ErrBadResponse) {
		t.Fatalf("expected ErrBadResponse, got %v", err)
	}
}

func TestNew_RequiresURL(t *testing.T) {
	if _, err := remote.New("", 1); err == nil {
		t.Fatalf("expected error for empty URL")
	}
}
