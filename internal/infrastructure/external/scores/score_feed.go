// Package scores pulls score updates from the external match data feed.
package scores

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/vinayakp/wcauction/internal/domain"
)

type scoreFeedImpl struct {
	baseURL string
	apiKey  string
	client  *retryablehttp.Client
}

// feedResponse is the wire envelope of the score feed.
type feedResponse struct {
	Scores []domain.ScoreUpdate `json:"scores"`
}

type feedError struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// NewScoreFeed creates a score feed client. Transient feed failures are
// retried with backoff before surfacing an error.
func NewScoreFeed(baseURL, apiKey string) domain.ScoreFeed {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = 30 * time.Second
	client.Logger = nil

	return &scoreFeedImpl{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
	}
}

// FetchScores pulls the latest score rows from the feed.
func (s *scoreFeedImpl) FetchScores(ctx context.Context) ([]domain.ScoreUpdate, error) {
	url := fmt.Sprintf("%s/api/v1/scores", s.baseURL)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("score feed request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp feedError
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Code != "" {
			return nil, fmt.Errorf("score feed error: %s - %s", errResp.Code, errResp.Msg)
		}
		return nil, fmt.Errorf("score feed error: unexpected status %d - %s", resp.StatusCode, string(body))
	}

	var feed feedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return feed.Scores, nil
}
