package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// SummarizeDisputeInput is the context handed to the insights service.
type SummarizeDisputeInput struct {
	DisputeReason string `json:"dispute_reason"`
	ProductName   string `json:"product_name"`
	Amount        string `json:"amount"`
}

// DisputeSummary is the enrichment returned for a dispute.
type DisputeSummary struct {
	Summary           string `json:"summary"`
	RiskLevel         string `json:"risk_level"`
	RecommendedAction string `json:"recommended_action"`
}

// DisputeSummarizer produces an AI-generated summary for a new dispute.
// Callers treat every error as soft: a dispute is stored without a summary
// when summarization is unavailable.
type DisputeSummarizer interface {
	SummarizeDispute(ctx context.Context, input SummarizeDisputeInput) (*DisputeSummary, error)
}

// Client calls the hosted insights service over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an insights client with a bounded request timeout so a
// slow model call cannot stall the webhook pipeline.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// SummarizeDispute requests a summary for the dispute context
func (c *Client) SummarizeDispute(ctx context.Context, input SummarizeDisputeInput) (*DisputeSummary, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summarize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/disputes/summarize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build summarize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("summarize request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("summarize request returned status %d", resp.StatusCode)
	}

	var summary DisputeSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("failed to decode summarize response: %w", err)
	}

	c.logger.Debug("Dispute summarized",
		zap.String("risk_level", summary.RiskLevel))

	return &summary, nil
}
