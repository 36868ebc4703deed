package vk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"photosync/internal/httpclient"
	"photosync/pkg/config"
	apperrors "photosync/pkg/errors"
	"photosync/pkg/logger"
)

// Client talks to the VK API: it resolves handles to owner IDs and lists
// the photos of an album
type Client struct {
	http       *httpclient.Client
	baseURL    string
	token      string
	apiVersion string
	logger     logger.Logger
}

// NewClient creates a VK client from the vk config section
func NewClient(cfg config.VKConfig, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}

	return &Client{
		http:       httpclient.New(timeout, log),
		baseURL:    baseURL,
		token:      cfg.Token,
		apiVersion: version,
		logger:     log,
	}
}

// ResolveOwnerID turns a numeric ID or an alias into a numeric owner ID.
// Numeric handles are parsed locally without a network call.
func (c *Client) ResolveOwnerID(ctx context.Context, handle string) (int64, error) {
	sanitized := SanitizeHandle(handle)
	if sanitized == "" {
		return 0, apperrors.New(apperrors.KindIdentityResolution, usersGetMethod, "empty user handle")
	}

	if id, ok := ParseNumericID(sanitized); ok {
		c.logger.DebugWithFields("handle is numeric, skipping lookup", map[string]interface{}{
			"owner_id": id,
		})
		return id, nil
	}

	c.logger.DebugWithFields("resolving alias", map[string]interface{}{
		"alias": sanitized,
	})

	raw, err := c.call(ctx, usersGetMethod, c.usersGetURL(sanitized))
	if err != nil {
		return 0, identityError(err)
	}

	var users []User
	if err := c.http.DecodeJSON(usersGetMethod, raw, &users); err != nil {
		return 0, identityError(err)
	}

	switch {
	case len(users) == 0:
		return 0, apperrors.New(apperrors.KindIdentityResolution, usersGetMethod,
			fmt.Sprintf("no user matches %q", sanitized))
	case len(users) > 1:
		return 0, apperrors.New(apperrors.KindIdentityResolution, usersGetMethod,
			fmt.Sprintf("expected one user for %q, got %d", sanitized, len(users)))
	case users[0].ID == nil:
		return 0, apperrors.New(apperrors.KindIdentityResolution, usersGetMethod, "user entry has no id")
	}

	id := *users[0].ID
	c.logger.InfoWithFields("resolved alias", map[string]interface{}{
		"alias":    sanitized,
		"owner_id": id,
	})
	return id, nil
}

// identityError reclassifies lookup failures as identity resolution errors,
// leaving transport failures as network errors
func identityError(err error) error {
	if apperrors.KindOf(err) == apperrors.KindNetwork {
		return err
	}
	return apperrors.Wrap(apperrors.KindIdentityResolution, usersGetMethod, err)
}

// FetchPhotos returns every photo photos.get yields for the owner and album
// in a single call. An empty album means DefaultAlbum.
func (c *Client) FetchPhotos(ctx context.Context, ownerID int64, album string) ([]Photo, error) {
	if album == "" {
		album = DefaultAlbum
	}

	c.logger.DebugWithFields("fetching photos", map[string]interface{}{
		"owner_id": ownerID,
		"album":    album,
	})

	raw, err := c.call(ctx, photosGetMethod, c.photosGetURL(ownerID, album))
	if err != nil {
		return nil, err
	}

	var resp photosResponse
	if err := c.http.DecodeJSON(photosGetMethod, raw, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		return nil, apperrors.New(apperrors.KindDataShape, photosGetMethod, "response has no items field")
	}

	fields := map[string]interface{}{
		"owner_id": ownerID,
		"album":    album,
		"items":    len(resp.Items),
	}
	if resp.Count != nil {
		fields["total"] = *resp.Count
	}
	c.logger.InfoWithFields("fetched photos", fields)

	return resp.Items, nil
}

// call performs a VK method request and returns the raw "response" value.
// Error envelopes and non-200 statuses are photo fetch errors; a body
// with neither "response" nor "error" is a data shape error.
func (c *Client) call(ctx context.Context, method, rawURL string) (json.RawMessage, error) {
	resp, err := c.http.Do(ctx, method, http.MethodGet, rawURL)
	if err != nil {
		return nil, err
	}

	body, err := httpclient.ReadBody(method, resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.Error{
			Kind:    apperrors.KindPhotoFetch,
			Op:      method,
			Message: fmt.Sprintf("unexpected status %d", resp.StatusCode),
			Code:    resp.StatusCode,
		}
	}

	var env envelope
	if err := c.http.DecodeJSON(method, body, &env); err != nil {
		return nil, err
	}

	if env.Error != nil {
		c.logger.WarnWithFields("VK API returned an error", map[string]interface{}{
			"method": method,
			"code":   env.Error.Code,
			"error":  env.Error.Message,
		})
		return nil, &apperrors.Error{
			Kind:    apperrors.KindPhotoFetch,
			Op:      method,
			Message: env.Error.Message,
			Code:    env.Error.Code,
		}
	}

	if len(env.Response) == 0 || bytes.Equal(env.Response, []byte("null")) {
		return nil, apperrors.New(apperrors.KindDataShape, method, "response field is missing")
	}

	return env.Response, nil
}
