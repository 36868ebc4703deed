package yadisk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"photosync/internal/httpclient"
	"photosync/pkg/config"
	apperrors "photosync/pkg/errors"
	"photosync/pkg/logger"
)

// DefaultBaseURL is the disk API root
const DefaultBaseURL = "https://cloud-api.yandex.net/v1/disk"

const (
	opCreateFolder = "create folder"
	opUpload       = "upload"
)

// Client talks to the disk API
type Client struct {
	http    *httpclient.Client
	baseURL string
	logger  logger.Logger
}

// NewClient creates a disk client from the disk config section
func NewClient(cfg config.DiskConfig, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	hc := httpclient.New(timeout, log)
	hc.SetHeader("Authorization", cfg.Token)

	return &Client{
		http:    hc,
		baseURL: baseURL,
		logger:  log,
	}
}

// CreateFolder creates the folder at path. Whatever the service answers is
// returned in the result and logged; only transport failures are errors.
func (c *Client) CreateFolder(ctx context.Context, path string) (FolderResult, error) {
	params := url.Values{}
	params.Set("path", path)
	rawURL := c.baseURL + "/resources?" + params.Encode()

	resp, err := c.http.Do(ctx, opCreateFolder, http.MethodPut, rawURL)
	if err != nil {
		return FolderResult{}, err
	}
	body, err := httpclient.ReadBody(opCreateFolder, resp)
	if err != nil {
		return FolderResult{}, err
	}

	result := FolderResult{
		Path:    path,
		Status:  resp.StatusCode,
		Created: resp.StatusCode == http.StatusCreated,
	}

	fields := map[string]interface{}{
		"path":   path,
		"status": resp.StatusCode,
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.InfoWithFields("folder created", fields)
		return result, nil
	}

	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil {
		result.Message = apiErr.text()
		result.AlreadyExists = apiErr.Error == errPathExists
	}
	if result.Message != "" {
		fields["message"] = result.Message
	}

	if result.AlreadyExists {
		c.logger.InfoWithFields("folder already exists", fields)
	} else {
		c.logger.WarnWithFields("folder was not created", fields)
	}
	return result, nil
}

// UploadByURL asks the service to download sourceURL into path. The service
// acknowledges with 202 and fetches the file asynchronously; any other
// status is an upload error.
func (c *Client) UploadByURL(ctx context.Context, path, sourceURL string) error {
	params := url.Values{}
	params.Set("path", path)
	params.Set("url", sourceURL)
	rawURL := c.baseURL + "/resources/upload?" + params.Encode()

	resp, err := c.http.Do(ctx, opUpload, http.MethodPost, rawURL)
	if err != nil {
		return err
	}
	body, err := httpclient.ReadBody(opUpload, resp)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusAccepted {
		msg := fmt.Sprintf("unexpected status %d", resp.StatusCode)
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.text() != "" {
			msg = apiErr.text()
		}
		return &apperrors.Error{
			Kind:    apperrors.KindUpload,
			Op:      opUpload,
			Message: fmt.Sprintf("%s: %s", path, msg),
			Code:    resp.StatusCode,
		}
	}

	fields := map[string]interface{}{
		"path": path,
	}
	var op link
	if json.Unmarshal(body, &op) == nil && op.Href != "" {
		fields["operation"] = op.Href
	}
	c.logger.DebugWithFields("upload accepted", fields)
	return nil
}
