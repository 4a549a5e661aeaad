package offline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Session carries the client's identity explicitly; the queue and relay
// never reach for ambient global state.
type Session struct {
	BaseURL        string
	Token          string
	OrganizationID string
	AgentID        string
}

// APIExecutor replays queued actions against the visit service's HTTP API.
type APIExecutor struct {
	session Session
	client  *http.Client
}

func NewAPIExecutor(session Session) *APIExecutor {
	return &APIExecutor{
		session: session,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (e *APIExecutor) UpdateVisitStatus(ctx context.Context, visitId string, payload json.RawMessage) error {
	url := fmt.Sprintf("%s/visits/%s/status", e.session.BaseURL, visitId)
	return e.do(ctx, http.MethodPatch, url, payload)
}

func (e *APIExecutor) CreateLocation(ctx context.Context, payload json.RawMessage) error {
	url := fmt.Sprintf("%s/locations", e.session.BaseURL)
	return e.do(ctx, http.MethodPost, url, payload)
}

func (e *APIExecutor) do(ctx context.Context, method, url string, payload json.RawMessage) error {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.session.Token)

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: unexpected status %s", method, url, resp.Status)
	}
	return nil
}
