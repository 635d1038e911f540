package kuma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ddrozdov/kumabot/internal/domain"
)

// Session is one short-lived, logged-in connection to the monitoring
// service. Acquire with Dialer.Dial, release with Close; Close must run
// even when a fetch fails.
type Session interface {
	Monitors(ctx context.Context) ([]domain.Monitor, error)
	Incidents(ctx context.Context) ([]domain.Incident, error)
	Close()
}

// Dialer opens sessions. Each command handles its own session so
// concurrent commands never share login state.
type Dialer interface {
	Dial(ctx context.Context) (Session, error)
}

type Options struct {
	BaseURL  string
	Username string
	Password string
	APIKey   string // used as a bearer token directly when set
	Timeout  time.Duration
}

type Client struct {
	opts Options
	http *http.Client
	log  *zap.Logger
}

func NewClient(opts Options, log *zap.Logger) *Client {
	return &Client{
		opts: opts,
		http: &http.Client{Timeout: opts.Timeout},
		log:  log,
	}
}

func (c *Client) Dial(ctx context.Context) (Session, error) {
	s := &session{c: c}
	if err := s.login(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

type session struct {
	c     *Client
	token string
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginReply struct {
	Token string `json:"token"`
}

func (s *session) login(ctx context.Context) error {
	if s.c.opts.APIKey != "" {
		s.token = s.c.opts.APIKey
		return nil
	}

	body, _ := json.Marshal(loginPayload{Username: s.c.opts.Username, Password: s.c.opts.Password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.c.opts.BaseURL+"/api/login", bytes.NewReader(body))
	if err != nil {
		return classify("login", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.c.http.Do(req)
	if err != nil {
		return classify("login", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: login returned %s", ErrUnavailable, resp.Status)
	}

	var rep loginReply
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		return classify("login decode", err)
	}
	s.token = rep.Token
	return nil
}

func (s *session) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.c.opts.BaseURL+path, nil)
	if err != nil {
		return classify(path, err)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.c.http.Do(req)
	if err != nil {
		return classify(path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: %s returned %s", ErrUnavailable, path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return classify(path+" decode", err)
	}
	return nil
}

func (s *session) Monitors(ctx context.Context) ([]domain.Monitor, error) {
	var rep struct {
		Monitors []map[string]any `json:"monitors"`
	}
	if err := s.get(ctx, "/api/monitors", &rep); err != nil {
		return nil, err
	}
	out := make([]domain.Monitor, 0, len(rep.Monitors))
	for _, raw := range rep.Monitors {
		out = append(out, NormalizeMonitor(raw))
	}
	return out, nil
}

func (s *session) Incidents(ctx context.Context) ([]domain.Incident, error) {
	var rep struct {
		Incidents []map[string]any `json:"incidents"`
	}
	if err := s.get(ctx, "/api/incidents", &rep); err != nil {
		return nil, err
	}
	out := make([]domain.Incident, 0, len(rep.Incidents))
	for _, raw := range rep.Incidents {
		out = append(out, NormalizeIncident(raw))
	}
	return out, nil
}

// Close logs out best-effort; the session is unusable afterwards either way.
func (s *session) Close() {
	if s.token == "" || s.c.opts.APIKey != "" {
		return
	}
	req, err := http.NewRequest(http.MethodPost, s.c.opts.BaseURL+"/api/logout", nil)
	if err != nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	if resp, err := s.c.http.Do(req); err == nil {
		resp.Body.Close()
	} else if s.c.log != nil {
		s.c.log.Warn("kuma_logout_failed", zap.Error(err))
	}
	s.token = ""
}
