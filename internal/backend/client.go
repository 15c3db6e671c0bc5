package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"panaudit/internal/catalog"
	"panaudit/internal/logging"
	"panaudit/internal/scan"
	"panaudit/internal/session"
)

// ErrCatalogBuilding is returned when the pan catalog is still being built
// server-side and the bounded retry ceiling was exhausted.
var ErrCatalogBuilding = errors.New("pan catalog is still building")

// Client talks to the audit backend API.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a backend client. The token may be empty for unauthenticated
// deployments.
func New(baseURL, apiToken string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("backend base url required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiToken:   strings.TrimSpace(apiToken),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ScanFeed is the scan list for one restaurant/date scope, with the
// propagation and AI state the backend reports alongside it.
type ScanFeed struct {
	Scans         []scan.Record
	Flagged       []scan.Record
	Propagating   bool
	NoData        bool
	AIRunning     bool
	AICompletedAt string
}

type scanFeedPayload struct {
	Scans         []scan.Record `json:"scans"`
	Flagged       []scan.Record `json:"flagged"`
	Propagating   bool          `json:"propagating"`
	NoData        bool          `json:"noData"`
	AIRunning     bool          `json:"aiRunning"`
	AICompletedAt string        `json:"aiCompletedAt"`
}

// ScansToAudit fetches the scans for a restaurant and date. Flagged records
// are marked so downstream classification keeps them in the manual list.
func (c *Client) ScansToAudit(ctx context.Context, restaurantID, date string, includeBad bool) (*ScanFeed, error) {
	params := url.Values{}
	params.Set("restaurantId", restaurantID)
	params.Set("date", date)
	if includeBad {
		params.Set("includeBad", "true")
	}

	var payload scanFeedPayload
	if err := c.getJSON(ctx, "/scans_to_audit", params, &payload); err != nil {
		return nil, err
	}

	feed := &ScanFeed{
		Scans:         payload.Scans,
		Flagged:       payload.Flagged,
		Propagating:   payload.Propagating,
		NoData:        payload.NoData,
		AIRunning:     payload.AIRunning,
		AICompletedAt: payload.AICompletedAt,
	}
	for i := range feed.Flagged {
		feed.Flagged[i].SetFlagged()
	}
	return feed, nil
}

type pansPayload struct {
	Pans     []catalog.Pan `json:"pans"`
	Building bool          `json:"building"`
}

// RegisteredPans fetches the pan catalog for a restaurant/date. The second
// return reports whether the backend is still building the catalog.
func (c *Client) RegisteredPans(ctx context.Context, restaurantID, date string) ([]catalog.Pan, bool, error) {
	params := url.Values{}
	params.Set("restaurantId", restaurantID)
	if date != "" {
		params.Set("date", date)
	}

	var payload pansPayload
	if err := c.getJSON(ctx, "/pans", params, &payload); err != nil {
		return nil, false, err
	}
	return payload.Pans, payload.Building, nil
}

// RegisteredPansWithRetry fetches the catalog, retrying while the backend
// reports building, up to the attempt ceiling. Past the ceiling it gives up
// with ErrCatalogBuilding rather than retrying forever.
func (c *Client) RegisteredPansWithRetry(ctx context.Context, restaurantID, date string, attempts int, delay time.Duration) ([]catalog.Pan, error) {
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; ; attempt++ {
		pans, building, err := c.RegisteredPans(ctx, restaurantID, date)
		if err != nil {
			return nil, err
		}
		if !building {
			return pans, nil
		}
		if attempt >= attempts {
			return nil, ErrCatalogBuilding
		}
		c.logger.Info("pan catalog building, retrying",
			logging.String(logging.FieldRestaurantID, restaurantID),
			logging.Int(logging.FieldAttempt, attempt))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// MenuItem is one distinct menu item observed in a restaurant's scans.
type MenuItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type menuItemsPayload struct {
	Items []MenuItem `json:"items"`
}

// SearchMenuItems searches the menu items seen for a restaurant/date by
// name substring. An empty query returns the most frequent items.
func (c *Client) SearchMenuItems(ctx context.Context, restaurantID, date, query string, limit int) ([]MenuItem, error) {
	params := url.Values{}
	params.Set("restaurantId", restaurantID)
	if date != "" {
		params.Set("date", date)
	}
	if query != "" {
		params.Set("q", query)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var payload menuItemsPayload
	if err := c.getJSON(ctx, "/menu_items", params, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// Restaurant is one restaurant row, optionally annotated with scan counts
// for a date.
type Restaurant struct {
	ID               catalog.FlexID `json:"id"`
	Name             string         `json:"name"`
	ScanCount        int            `json:"scanCount"`
	NormalScanCount  int            `json:"normalScanCount"`
	FlaggedScanCount int            `json:"flaggedScanCount"`
	ActiveAuditors   int            `json:"activeAuditors"`
}

type restaurantsPayload struct {
	Restaurants []Restaurant `json:"restaurants"`
	Propagating bool         `json:"propagating"`
	NoData      bool         `json:"noData"`
}

// Restaurants lists all restaurants known to the backend.
func (c *Client) Restaurants(ctx context.Context) ([]Restaurant, error) {
	var payload restaurantsPayload
	if err := c.getJSON(ctx, "/restaurants", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Restaurants, nil
}

// RestaurantsWithScans lists restaurants annotated with scan counts for a
// date. An empty date yields zero counts for every restaurant.
func (c *Client) RestaurantsWithScans(ctx context.Context, date string) ([]Restaurant, error) {
	params := url.Values{}
	if date != "" {
		params.Set("date", date)
	}
	var payload restaurantsPayload
	if err := c.getJSON(ctx, "/restaurants/with-scans", params, &payload); err != nil {
		return nil, err
	}
	return payload.Restaurants, nil
}

type presignPayload struct {
	URL string `json:"url"`
}

// PresignImage exchanges a storage key for a short-lived display URL.
func (c *Client) PresignImage(ctx context.Context, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("image key required")
	}
	params := url.Values{}
	params.Set("key", key)

	var payload presignPayload
	if err := c.getJSON(ctx, "/image/presign", params, &payload); err != nil {
		return "", err
	}
	if payload.URL == "" {
		return "", errors.New("backend returned no presigned url")
	}
	return payload.URL, nil
}

// SubmitResult is the backend's acknowledgment of an audit submission.
type SubmitResult struct {
	Success        bool     `json:"success"`
	SessionID      string   `json:"session_id"`
	AppliedActions int      `json:"applied_actions"`
	FailedActions  int      `json:"failed_actions"`
	Errors         []string `json:"errors"`
	Timestamp      string   `json:"timestamp"`
}

type submitPayload struct {
	RestaurantID   string           `json:"restaurantId"`
	Date           string           `json:"date"`
	AuditStartTime string           `json:"auditStartTime"`
	AuditEndTime   string           `json:"auditEndTime,omitempty"`
	Actions        []session.Action `json:"actions"`
}

// SubmitAudit sends the session's changed actions to the backend. The
// submission is atomic from the caller's perspective: on any error the local
// ledger remains the source of truth for retry.
func (c *Client) SubmitAudit(ctx context.Context, ses *session.Session) (*SubmitResult, error) {
	if ses == nil {
		return nil, errors.New("submit nil session")
	}
	body := submitPayload{
		RestaurantID:   ses.RestaurantID,
		Date:           ses.Date,
		AuditStartTime: ses.AuditStartTime,
		AuditEndTime:   ses.AuditEndTime,
		Actions:        ses.ChangedActions(),
	}

	var result SubmitResult
	if err := c.postJSON(ctx, "/submitAudit", body, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return &result, fmt.Errorf("submission rejected: %d action(s) failed", result.FailedActions)
	}
	return &result, nil
}

// PipelineState is one AI pipeline status snapshot for a date.
type PipelineState struct {
	Running     bool   `json:"running"`
	CompletedAt string `json:"completedAt"`
	LastError   string `json:"lastError"`
	Coverage    struct {
		Total   int `json:"total"`
		WithPan int `json:"withPan"`
	} `json:"coverage"`
}

// RunPipeline asks the backend to start the pan-identification pipeline for
// a restaurant/date.
func (c *Client) RunPipeline(ctx context.Context, restaurantID, date string) error {
	body := map[string]string{"restaurantId": restaurantID, "date": date}
	return c.postJSON(ctx, "/pan_ai/run", body, nil)
}

// PipelineStatus fetches the pipeline state for a date.
func (c *Client) PipelineStatus(ctx context.Context, date string) (*PipelineState, error) {
	params := url.Values{}
	params.Set("date", date)

	var state PipelineState
	if err := c.getJSON(ctx, "/pan_ai/status", params, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// WaitForPipeline polls the pipeline status until it stops running or the
// context is canceled. Fetch errors end the wait; retrying is the caller's
// call.
func (c *Client) WaitForPipeline(ctx context.Context, date string, interval time.Duration) (*PipelineState, error) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		state, err := c.PipelineStatus(ctx, date)
		if err != nil {
			return nil, err
		}
		if !state.Running {
			return state, nil
		}
		c.logger.Debug("pipeline still running",
			logging.String(logging.FieldAuditDate, date))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse backend url: %w", err)
	}
	if params != nil {
		endpoint.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, path, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse backend url: %w", err)
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, path string, out any) error {
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend %s returned %d (latency=%v)", path, resp.StatusCode, latency)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
