// Package httpclient holds the HTTP plumbing shared by the VK and Yandex Disk
// clients: timeouts, default headers, request logging and mapping transport
// failures to network errors.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "photosync/pkg/errors"
	"photosync/pkg/logger"
)

const userAgent = "photosync/1.0 (+https://github.com/photosync)"

// maxBodyPreview bounds how much of an unparseable body is logged
const maxBodyPreview = 200

// Client wraps http.Client with the headers and logging every API call needs
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	logger     logger.Logger
}

// New creates a Client with the given timeout. A nil logger falls back to
// the global one.
func New(timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		headers: map[string]string{
			"User-Agent": userAgent,
			"Accept":     "application/json",
		},
		logger: log,
	}
}

// SetHeader sets a header sent with every request
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetTransport replaces the underlying round tripper, keeping the timeout
func (c *Client) SetTransport(rt http.RoundTripper) {
	c.httpClient.Transport = rt
}

// Do sends a request built from method and rawURL. Transport failures,
// including timeouts and context cancellation, come back as network errors;
// the response is returned for any HTTP status.
func (c *Client) Do(ctx context.Context, op, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, &apperrors.Error{
			Kind:    apperrors.KindNetwork,
			Op:      op,
			Message: "failed to create request",
			Err:     err,
		}
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"op":       op,
			"method":   method,
			"url":      logger.RedactURL(rawURL),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &apperrors.Error{
			Kind:    apperrors.KindNetwork,
			Op:      op,
			Message: "request failed",
			Err:     err,
		}
	}

	logger.LogRequest(c.logger, method, rawURL, resp.StatusCode, duration)
	return resp, nil
}

// ReadBody reads and closes the response body
func ReadBody(op string, resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.Error{
			Kind:    apperrors.KindNetwork,
			Op:      op,
			Message: "failed to read response body",
			Code:    resp.StatusCode,
			Err:     err,
		}
	}
	return body, nil
}

// DecodeJSON unmarshals body into target. Malformed JSON is a data shape
// error: the remote side broke its contract.
func (c *Client) DecodeJSON(op string, body []byte, target interface{}) error {
	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > maxBodyPreview {
			preview = preview[:maxBodyPreview] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"op":           op,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return &apperrors.Error{
			Kind:    apperrors.KindDataShape,
			Op:      op,
			Message: fmt.Sprintf("invalid JSON: %v", err),
		}
	}
	return nil
}
