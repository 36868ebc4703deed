package yadisk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"photosync/pkg/config"
	apperrors "photosync/pkg/errors"
	"photosync/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.DiskConfig{Token: "OAuth disk-token", BaseURL: server.URL}
	return NewClient(cfg, 5*time.Second, logger.NewTestLogger())
}

func TestCreateFolder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/resources", r.URL.Path)
		assert.Equal(t, "backup 2024", r.URL.Query().Get("path"))
		assert.Equal(t, "OAuth disk-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Empty(t, r.Header.Get("Content-Type"), "request has no body")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"href":"https://cloud-api.yandex.net/v1/disk/resources?path=disk%3A%2Fbackup","method":"GET"}`))
	})

	result, err := client.CreateFolder(context.Background(), "backup 2024")
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.False(t, result.AlreadyExists)
	assert.Equal(t, http.StatusCreated, result.Status)
	assert.Equal(t, "backup 2024", result.Path)
}

func TestCreateFolderRejectedIsNotAnError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantExists bool
		wantMsg    string
	}{
		{
			name:       "already exists",
			status:     http.StatusConflict,
			body:       `{"message":"По указанному пути \"backup\" уже существует папка с таким именем.","description":"Specified path \"backup\" points to existent directory.","error":"DiskPathPointsToExistentDirectoryError"}`,
			wantExists: true,
			wantMsg:    "Specified path",
		},
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    `{"message":"Not authorized.","description":"Unauthorized","error":"UnauthorizedError"}`,
			wantMsg: "Not authorized.",
		},
		{
			name:   "no body",
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			result, err := client.CreateFolder(context.Background(), "backup")
			require.NoError(t, err)
			assert.False(t, result.Created)
			assert.Equal(t, tt.status, result.Status)
			assert.Equal(t, tt.wantExists, result.AlreadyExists)
			assert.Contains(t, result.Message, tt.wantMsg)
		})
	}
}

func TestCreateFolderTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(config.DiskConfig{Token: "t", BaseURL: server.URL}, time.Second, logger.NewTestLogger())
	_, err := client.CreateFolder(context.Background(), "backup")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
}

func TestUploadByURL(t *testing.T) {
	source := "https://sun9-1.userapi.com/impg/abc.jpg?size=2560x1440&quality=95&type=album"

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/resources/upload", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "backup/10.jpg", q.Get("path"))
		assert.Equal(t, source, q.Get("url"))
		assert.Equal(t, "OAuth disk-token", r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("Content-Type"), "request has no body")
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"href":"https://cloud-api.yandex.net/v1/disk/operations/abc","method":"GET","templated":false}`))
	})

	require.NoError(t, client.UploadByURL(context.Background(), "backup/10.jpg", source))
}

func TestUploadByURLRejected(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{"message":"Internal error","description":"internal","error":"InternalError"}`,
			wantMsg: "Internal error (internal)",
		},
		{
			name:    "created is not accepted",
			status:  http.StatusCreated,
			wantMsg: "unexpected status 201",
		},
		{
			name:    "description only",
			status:  http.StatusInsufficientStorage,
			body:    `{"description":"Insufficient storage"}`,
			wantMsg: "Insufficient storage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			err := client.UploadByURL(context.Background(), "backup/1.jpg", "https://example.com/1.jpg")
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrUpload)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Contains(t, err.Error(), "backup/1.jpg")

			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.status, appErr.Code)
		})
	}
}

func TestUploadByURLCancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.UploadByURL(ctx, "backup/1.jpg", "https://example.com/1.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
	assert.ErrorIs(t, err, context.Canceled)
}
