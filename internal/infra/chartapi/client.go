package chartapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/yanqian/birthchart/internal/domain/birthchart"
)

// DefaultBaseURL is the hosted calculation service used when nothing else is configured.
const DefaultBaseURL = "https://11bc0d6b-635a-418a-aab1-c1c7088ce225.preview.emergentagent.com"

const (
	chartPath   = "/api/birth-chart"
	historyPath = "/api/history"
	rootPath    = "/api/"
	maxErrBody  = 512
)

// ErrUnexpectedStatus marks a non-2xx reply from the calculation service.
var ErrUnexpectedStatus = errors.New("unexpected status from chart service")

// Client talks to the external birth chart calculation service. It never
// retries and sets no timeout of its own; callers bound requests via ctx.
type Client struct {
	baseURL string
	http    *resty.Client
}

// NewClient builds an API client for baseURL.
func NewClient(baseURL string) *Client {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = DefaultBaseURL
	}
	url = strings.TrimRight(url, "/")

	httpClient := resty.New().
		SetBaseURL(url).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	return &Client{baseURL: url, http: httpClient}
}

// BaseURL returns the normalized service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Calculate posts the birth input once and decodes the chart.
func (c *Client) Calculate(ctx context.Context, input birthchart.BirthInput) (birthchart.ChartResult, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(input).
		Post(chartPath)
	if err != nil {
		return birthchart.ChartResult{}, fmt.Errorf("chart request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return birthchart.ChartResult{}, err
	}

	var result birthchart.ChartResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return birthchart.ChartResult{}, fmt.Errorf("decode chart response: %w", err)
	}
	if result.Planets == nil {
		result.Planets = []birthchart.PlanetPosition{}
	}
	return result, nil
}

// History lists the most recent calculations kept by the service.
func (c *Client) History(ctx context.Context) ([]birthchart.HistoryEntry, error) {
	resp, err := c.http.R().SetContext(ctx).Get(historyPath)
	if err != nil {
		return nil, fmt.Errorf("history request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var payload struct {
		History []birthchart.HistoryEntry `json:"history"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("decode history response: %w", err)
	}
	return payload.History, nil
}

// Ping checks that the service root answers with a 2xx status.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get(rootPath)
	if err != nil {
		return fmt.Errorf("ping chart service: %w", err)
	}
	return checkStatus(resp)
}

func checkStatus(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	body := resp.String()
	if len(body) > maxErrBody {
		body = body[:maxErrBody]
	}
	return fmt.Errorf("%w: status=%d body=%s", ErrUnexpectedStatus, resp.StatusCode(), body)
}

var _ birthchart.ChartClient = (*Client)(nil)
