package kuma

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ddrozdov/kumabot/internal/domain"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var p loginPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Username != "root" {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(loginReply{Token: "tok123"})
	})
	mux.HandleFunc("/api/monitors", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok123" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"monitors":[
			{"id":1,"name":"API","url":"https://api.example.com","type":"http","active":true,"status":1,"maintenance":false},
			{"id":2,"name":"Web","active":true,"status":0,"maintenance":false}
		]}`))
	})
	mux.HandleFunc("/api/incidents", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not implemented", http.StatusNotFound)
	})
	mux.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_DialAndMonitors(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(Options{
		BaseURL:  srv.URL,
		Username: "root",
		Password: "secret",
		Timeout:  2 * time.Second,
	}, zap.NewNop())

	s, err := c.Dial(context.Background())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer s.Close()

	monitors, err := s.Monitors(context.Background())
	if err != nil {
		t.Fatalf("Monitors: %v", err)
	}
	if len(monitors) != 2 {
		t.Fatalf("want 2 monitors, got %d", len(monitors))
	}
	if monitors[0].ID != "1" || monitors[0].Status != domain.StatusUp {
		t.Fatalf("first monitor wrong: %+v", monitors[0])
	}
	if monitors[1].Status != domain.StatusDown || monitors[1].URL != "" {
		t.Fatalf("second monitor wrong: %+v", monitors[1])
	}
}

func TestClient_IncidentFeedFailureIsUnavailable(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(Options{BaseURL: srv.URL, Username: "root", Password: "secret", Timeout: 2 * time.Second}, zap.NewNop())

	s, err := c.Dial(context.Background())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer s.Close()

	if _, err := s.Incidents(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}

func TestClient_BadLoginIsUnavailable(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(Options{BaseURL: srv.URL, Username: "wrong", Password: "nope", Timeout: 2 * time.Second}, zap.NewNop())

	if _, err := c.Dial(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}

func TestClient_TimeoutClassified(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(slow.Close)

	c := NewClient(Options{BaseURL: slow.URL, Username: "root", Password: "secret", Timeout: time.Second}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := c.Dial(ctx); !errors.Is(err, ErrTimeout) {
		t.Fatalf("want ErrTimeout, got %v", err)
	}
}

func TestClient_APIKeySkipsLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/login" {
			t.Error("login must not be called when an API key is set")
		}
		if r.Header.Get("Authorization") != "Bearer key123" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"monitors":[]}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "key123", Timeout: time.Second}, zap.NewNop())

	s, err := c.Dial(context.Background())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer s.Close()

	if _, err := s.Monitors(context.Background()); err != nil {
		t.Fatalf("Monitors: %v", err)
	}
}
