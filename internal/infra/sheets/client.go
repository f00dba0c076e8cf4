// Package sheets is the sync client for the spreadsheet-backed remote
// store of record (an Apps-Script-style web endpoint). Push is one-way
// best effort; pull fetches the authoritative full snapshot.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/momai-ledger/momai/internal/domain"
	"github.com/momai-ledger/momai/internal/infra/observability"
)

const defaultTimeout = 30 * time.Second

// Client talks to one configured remote endpoint. A client with an
// empty URL is valid: pushes become no-ops and pulls report no remote.
type Client struct {
	url  string
	http *http.Client
}

// New builds a client for the given endpoint URL (may be empty).
func New(endpoint string) *Client {
	return &Client{
		url:  strings.TrimSpace(endpoint),
		http: &http.Client{Timeout: defaultTimeout},
	}
}

// Configured reports whether a remote endpoint is set.
func (c *Client) Configured() bool { return c.url != "" }

// Push replicates one mutation event: a single POST, no retry, and no
// response body is consumed. The caller treats any return as "attempt
// completed".
func (c *Client) Push(ctx context.Context, event domain.SyncEvent) error {
	if c.url == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode sync event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		observability.PushesTotal.WithLabelValues(string(event.Action), observability.OutcomeError).Inc()
		return fmt.Errorf("push %s: %w", event.Action, err)
	}
	// One-way contract: drain and ignore whatever the endpoint answers.
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	observability.PushesTotal.WithLabelValues(string(event.Action), observability.OutcomeOK).Inc()
	log.Debug().Str("action", string(event.Action)).Msg("replicated to remote")
	return nil
}

// Pull requests the remote's full snapshot. A network error, non-2xx
// status, or a body without both collections is reported as no data.
func (c *Client) Pull(ctx context.Context) (*domain.Snapshot, error) {
	if c.url == "" {
		return nil, domain.ErrNoRemote
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, readURL(c.url), nil)
	if err != nil {
		return nil, fmt.Errorf("build pull request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		observability.PullsTotal.WithLabelValues(observability.OutcomeError).Inc()
		return nil, fmt.Errorf("pull snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observability.PullsTotal.WithLabelValues(observability.OutcomeError).Inc()
		return nil, fmt.Errorf("pull snapshot: unexpected status %d", resp.StatusCode)
	}

	// Decode into raw fields first so a body with missing collections is
	// distinguishable from an empty remote.
	var payload struct {
		Customers    []domain.Customer    `json:"customers"`
		Transactions []domain.Transaction `json:"transactions"`
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.PullsTotal.WithLabelValues(observability.OutcomeError).Inc()
		return nil, fmt.Errorf("read snapshot body: %w", err)
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		observability.PullsTotal.WithLabelValues(observability.OutcomeError).Inc()
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(raw, &shape); err != nil {
		observability.PullsTotal.WithLabelValues(observability.OutcomeError).Inc()
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if _, ok := shape["customers"]; !ok {
		observability.PullsTotal.WithLabelValues(observability.OutcomeError).Inc()
		return nil, fmt.Errorf("malformed snapshot: missing customers")
	}
	if _, ok := shape["transactions"]; !ok {
		observability.PullsTotal.WithLabelValues(observability.OutcomeError).Inc()
		return nil, fmt.Errorf("malformed snapshot: missing transactions")
	}

	observability.PullsTotal.WithLabelValues(observability.OutcomeOK).Inc()
	return &domain.Snapshot{
		Customers:    payload.Customers,
		Transactions: payload.Transactions,
	}, nil
}

// readURL appends the query marker that tells the endpoint this is a
// read, preserving any query string already present.
func readURL(endpoint string) string {
	if strings.Contains(endpoint, "?") {
		return endpoint + "&action=get"
	}
	return endpoint + "?" + url.Values{"action": {"get"}}.Encode()
}
