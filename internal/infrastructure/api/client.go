package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Tomas-vilte/MateTest/internal/domain/models"
	"github.com/Tomas-vilte/MateTest/internal/domain/ports"
	apperrors "github.com/Tomas-vilte/MateTest/internal/errors"
	"github.com/Tomas-vilte/MateTest/internal/infrastructure/httpclient"
	"github.com/Tomas-vilte/MateTest/internal/logger"
)

var _ ports.SuiteClient = (*Client)(nil)

// Client habla con la API de suites. Las fallas transitorias (5xx, 429 y
// errores de red) se recuperan acá con backoff; los 4xx restantes no se
// reintentan y se reportan al caller.
type Client struct {
	baseURL  string
	apiKey   string
	client   httpclient.HTTPClient
	policy   RetryPolicy
	inflight *inflightRegistry
}

func NewClient(baseURL, apiKey string, client httpclient.HTTPClient) *Client {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		client:   client,
		policy:   DefaultRetryPolicy(),
		inflight: newInflightRegistry(),
	}
}

// statusError es un error HTTP no recuperable
type statusError struct {
	StatusCode int
	Status     string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status from suite API: %s", e.Status)
}

// do ejecuta una request con dedup de llamadas idénticas en vuelo y backoff
// exponencial sobre fallas transitorias. Un 404 retorna (nil, nil).
func (c *Client) do(ctx context.Context, method, requestURL string, body []byte) ([]byte, error) {
	key := Fingerprint(method, requestURL, body)

	call, owner := c.inflight.begin(key)
	if !owner {
		select {
		case <-call.done:
			return call.body, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	responseBody, err := c.doWithRetries(ctx, method, requestURL, body)
	c.inflight.finish(key, call, responseBody, err)
	return responseBody, err
}

func (c *Client) doWithRetries(ctx context.Context, method, requestURL string, body []byte) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.policy.Delay(attempt - 1)
			logger.Debug(ctx, "reintentando request", "method", method, "url", requestURL, "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		responseBody, retryable, err := c.doOnce(ctx, method, requestURL, body)
		if err == nil {
			return responseBody, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, apperrors.ErrRetriesExhausted.WithError(fmt.Errorf("after %d retries: %w", c.policy.MaxRetries, lastErr))
}

func (c *Client) doOnce(ctx context.Context, method, requestURL string, body []byte) ([]byte, bool, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, false, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// errores de red son siempre reintentables
		return nil, true, fmt.Errorf("error making request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Debug(ctx, "error closing response body", "error", err)
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, retryableStatus(resp.StatusCode), &statusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("error reading response body: %w", err)
	}

	return responseBody, false, nil
}

// Authenticate valida la API key contra el endpoint de autenticación
func (c *Client) Authenticate(ctx context.Context) (*models.AuthResult, error) {
	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/api/v1/auth", []byte("{}"))
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("auth endpoint not found")
	}

	var result models.AuthResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("error decoding auth response: %w", err)
	}
	return &result, nil
}

// CreateSuite crea una commit test suite con la submission dada
func (c *Client) CreateSuite(ctx context.Context, submission models.SuiteSubmission) (*models.CreateSuiteResult, error) {
	payload, err := json.Marshal(submission)
	if err != nil {
		return nil, fmt.Errorf("error encoding submission: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/api/v1/test-suites", payload)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("create endpoint not found")
	}

	var result models.CreateSuiteResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("error decoding create response: %w", err)
	}
	return &result, nil
}

// GetSuite busca una suite por uuid. Retorna (nil, nil) cuando no existe,
// distinto de un error de red que llega acá agotados los reintentos.
func (c *Client) GetSuite(ctx context.Context, uuid string) (*models.TestSuite, error) {
	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/api/v1/test-suites/"+url.PathEscape(uuid), nil)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}

	var suite models.TestSuite
	if err := json.Unmarshal(body, &suite); err != nil {
		return nil, fmt.Errorf("error decoding suite response: %w", err)
	}
	return &suite, nil
}

// ListSuites lista las suites recientes del repositorio
func (c *Client) ListSuites(ctx context.Context, repoName string) ([]models.SuiteSummary, error) {
	requestURL := c.baseURL + "/api/v1/test-suites?repo=" + url.QueryEscape(repoName)
	body, err := c.do(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return []models.SuiteSummary{}, nil
	}

	var suites []models.SuiteSummary
	if err := json.Unmarshal(body, &suites); err != nil {
		return nil, fmt.Errorf("error decoding list response: %w", err)
	}
	return suites, nil
}

// Download baja un artefacto por URL absoluta
func (c *Client) Download(ctx context.Context, artifactURL string) ([]byte, error) {
	body, err := c.do(ctx, http.MethodGet, artifactURL, nil)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("artifact not found: %s", artifactURL)
	}
	return body, nil
}
