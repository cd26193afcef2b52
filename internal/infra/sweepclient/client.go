package sweepclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
	"github.com/KasumiMercury/edf-hull-analysis/internal/observability/logging"
	"github.com/KasumiMercury/edf-hull-analysis/internal/observability/tracing"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/taskgen"
)

const defaultTimeout = 30 * time.Second

// Client talks to a running analysis server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(ctx context.Context, baseURL string) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	httpClient, err := newHTTPClient(ctx, baseURL, defaultTimeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// SubmitSweep posts plan to the server, which fans the runs out on its task queue.
func (c *Client) SubmitSweep(ctx context.Context, plan taskgen.SweepPlan) (*domain.SweepReceipt, error) {
	body, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sweep plan: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/v1/sweep", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		slog.ErrorContext(ctx, "unexpected status code from analysis server",
			slog.String("path", "/api/v1/sweep"),
			slog.Int("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var receipt domain.SweepReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, fmt.Errorf("failed to decode sweep receipt: %w", err)
	}

	slog.InfoContext(ctx, "sweep submitted",
		slog.String("run_id", receipt.RunID),
		slog.Int("enqueued", receipt.Enqueued),
	)

	return &receipt, nil
}

// GetAnalysis fetches a cached analysis result by task-set fingerprint.
func (c *Client) GetAnalysis(ctx context.Context, fingerprint string) (*domain.AnalysisResult, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/analyze/"+url.PathEscape(fingerprint), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, domain.ErrAnalysisNotFound
	default:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result domain.AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis result: %w", err)
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	ctx, span := tracing.StartExternalAPISpan(ctx, method, u)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(logging.RequestIDHeader, logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx)))
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		tracing.RecordError(span, err)
		slog.ErrorContext(ctx, "failed to send request to analysis server",
			slog.String("url", u),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}
