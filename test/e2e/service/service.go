package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	v1 "github.com/cbo-qa/cbo-smoke/api/v1"
)

const apiV1Path = "/api/v1"

// FixtureSvc is an HTTP client for the fixture API.
type FixtureSvc struct {
	baseURL    string
	httpClient *http.Client
}

func NewFixtureService(baseURL string) *FixtureSvc {
	return &FixtureSvc{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// StatusError is returned for any non-2xx answer.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

func (s *FixtureSvc) Health(ctx context.Context) (*v1.Health, error) {
	var out v1.Health
	return &out, s.do(ctx, http.MethodGet, "/health", &out)
}

func (s *FixtureSvc) Rows(ctx context.Context, scenario string) (*v1.ScenarioRows, error) {
	var out v1.ScenarioRows
	return &out, s.do(ctx, http.MethodGet, "/scenarios/"+url.PathEscape(scenario)+"/rows", &out)
}

func (s *FixtureSvc) Seed(ctx context.Context, scenario string, row int) (*v1.SeedResult, error) {
	var out v1.SeedResult
	return &out, s.do(ctx, http.MethodPost, fmt.Sprintf("/scenarios/%s/rows/%d/seed", url.PathEscape(scenario), row), &out)
}

func (s *FixtureSvc) Ledger(ctx context.Context) (*v1.Ledger, error) {
	var out v1.Ledger
	return &out, s.do(ctx, http.MethodGet, "/ledger", &out)
}

func (s *FixtureSvc) Staged(ctx context.Context, transactionIDs ...string) (*v1.StagedLienList, error) {
	q := url.Values{}
	for _, id := range transactionIDs {
		q.Add("transactionId", id)
	}
	path := "/staging"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out v1.StagedLienList
	return &out, s.do(ctx, http.MethodGet, path, &out)
}

func (s *FixtureSvc) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+apiV1Path+path, bytes.NewReader(nil))
	if err != nil {
		return err
	}

	zap.S().Debugw("fixture api request", "method", method, "path", path)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return json.Unmarshal(body, out)
}
