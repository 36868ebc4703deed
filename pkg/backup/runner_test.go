package backup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"photosync/pkg/config"
	apperrors "photosync/pkg/errors"
	"photosync/pkg/logger"
	"photosync/pkg/models"
	"photosync/pkg/report"
	"photosync/pkg/vk"
	"photosync/pkg/yadisk"
)

const photosBody = `{"response":{"count":3,"items":[
	{"id":1,"owner_id":1,"album_id":-7,"date":1700000001,"likes":{"count":10,"user_likes":0},
	 "sizes":[{"type":"s","url":"https://img/1s","width":75,"height":50},{"type":"w","url":"https://img/1w","width":1280,"height":853}]},
	{"id":2,"owner_id":1,"album_id":-7,"date":1700000002,"likes":{"count":4,"user_likes":0},
	 "sizes":[{"type":"x","url":"https://img/2x","width":604,"height":403}]},
	{"id":3,"owner_id":1,"album_id":-7,"date":1700000003,"likes":{"count":10,"user_likes":0},
	 "sizes":[{"type":"z","url":"https://img/3z","width":1080,"height":720},{"type":"y","url":"https://img/3y","width":807,"height":538}]}
]}}`

// services fakes both remote APIs on one server
type services struct {
	server    *httptest.Server
	mu        sync.Mutex
	uploads   []string
	failPath  string
	vkBody    string
	usersBody string
}

func newServices(t *testing.T) *services {
	t.Helper()

	s := &services{
		vkBody:    photosBody,
		usersBody: `{"response":[{"id":1}]}`,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/vk/users.get", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(s.usersBody))
	})
	mux.HandleFunc("/vk/photos.get", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("owner_id"))
		assert.Equal(t, "profile", r.URL.Query().Get("album_id"))
		w.Write([]byte(s.vkBody))
	})
	mux.HandleFunc("/disk/resources", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/disk/resources/upload", func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Query().Get("path")
		s.mu.Lock()
		s.uploads = append(s.uploads, p)
		s.mu.Unlock()
		if p == s.failPath {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"storage unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusAccepted)
	})

	s.server = httptest.NewServer(mux)
	t.Cleanup(s.server.Close)
	return s
}

func (s *services) newConfig(t *testing.T, policy string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.VK.Token = "vk"
	cfg.VK.BaseURL = s.server.URL + "/vk"
	cfg.VK.Album = "profile"
	cfg.Disk.Token = "disk"
	cfg.Disk.BaseURL = s.server.URL + "/disk"
	cfg.Upload.Policy = policy
	cfg.Report.Path = filepath.Join(t.TempDir(), "photos_info.json")
	cfg.HTTP.Timeout = 5 * time.Second
	return cfg
}

func TestRunEndToEnd(t *testing.T) {
	s := newServices(t)
	cfg := s.newConfig(t, config.PolicyBestEffort)
	runner := NewFromConfig(cfg, nil, logger.NewTestLogger())

	summary, err := runner.Run(context.Background(), Request{Handle: "someone", Folder: "backup"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.OwnerID)
	assert.Equal(t, 3, summary.Fetched)
	assert.Equal(t, 3, summary.Selected)
	assert.True(t, summary.Folder.Created)
	assert.Equal(t, cfg.Report.Path, summary.ReportPath)
	assert.Equal(t, []string{"backup/10.jpg", "backup/4.jpg", "backup/10_1700000003.jpg"}, s.uploads)

	records, err := report.Read(cfg.Report.Path)
	require.NoError(t, err)
	assert.Equal(t, []models.UploadRecord{
		{FileName: "10.jpg", Size: "w"},
		{FileName: "4.jpg", Size: "x"},
		{FileName: "10_1700000003.jpg", Size: "z"},
	}, records)
}

func TestRunUploadFailurePolicies(t *testing.T) {
	t.Run("best-effort writes report without the failure", func(t *testing.T) {
		s := newServices(t)
		s.failPath = "backup/4.jpg"
		cfg := s.newConfig(t, config.PolicyBestEffort)

		summary, err := NewFromConfig(cfg, nil, logger.NewTestLogger()).
			Run(context.Background(), Request{Handle: "1", Folder: "backup"})
		require.NoError(t, err)
		require.Len(t, summary.Failures, 1)
		assert.Equal(t, "4.jpg", summary.Failures[0].FileName)

		records, err := report.Read(cfg.Report.Path)
		require.NoError(t, err)
		assert.Len(t, records, 2)
		for _, r := range records {
			assert.NotEqual(t, "4.jpg", r.FileName)
		}
	})

	t.Run("fail-fast aborts without report", func(t *testing.T) {
		s := newServices(t)
		s.failPath = "backup/4.jpg"
		cfg := s.newConfig(t, config.PolicyFailFast)

		summary, err := NewFromConfig(cfg, nil, logger.NewTestLogger()).
			Run(context.Background(), Request{Handle: "1", Folder: "backup"})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUpload)
		assert.True(t, strings.HasPrefix(err.Error(), StageUpload+": "))
		assert.Contains(t, err.Error(), "storage unavailable")
		assert.Len(t, summary.Records, 1)

		_, statErr := os.Stat(cfg.Report.Path)
		assert.True(t, os.IsNotExist(statErr))
		assert.Len(t, s.uploads, 2)
	})
}

func TestRunStageErrors(t *testing.T) {
	tests := []struct {
		name      string
		handle    string
		setup     func(s *services)
		wantStage string
		wantKind  error
	}{
		{
			name:      "unknown alias",
			handle:    "nobody",
			setup:     func(s *services) { s.usersBody = `{"response":[]}` },
			wantStage: StageResolve,
			wantKind:  apperrors.ErrIdentityResolution,
		},
		{
			name:   "private album",
			handle: "1",
			setup: func(s *services) {
				s.vkBody = `{"error":{"error_code":30,"error_msg":"This profile is private"}}`
			},
			wantStage: StageFetch,
			wantKind:  apperrors.ErrPhotoFetch,
		},
		{
			name:      "items missing",
			handle:    "1",
			setup:     func(s *services) { s.vkBody = `{"response":{"count":0}}` },
			wantStage: StageFetch,
			wantKind:  apperrors.ErrDataShape,
		},
		{
			name:      "photo without likes",
			handle:    "1",
			setup:     func(s *services) { s.vkBody = `{"response":{"items":[{"id":9,"date":1,"sizes":[{"type":"x","url":"u","width":1,"height":1}]}]}}` },
			wantStage: StageSelect,
			wantKind:  apperrors.ErrDataShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServices(t)
			tt.setup(s)
			cfg := s.newConfig(t, config.PolicyBestEffort)

			_, err := NewFromConfig(cfg, nil, logger.NewTestLogger()).
				Run(context.Background(), Request{Handle: tt.handle, Folder: "backup"})
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), tt.wantStage+": "), err.Error())
			assert.ErrorIs(t, err, tt.wantKind)
			assert.Empty(t, s.uploads)
		})
	}
}

func TestRunRequiresFolder(t *testing.T) {
	s := newServices(t)
	_, err := NewFromConfig(s.newConfig(t, config.PolicyBestEffort), nil, logger.NewTestLogger()).
		Run(context.Background(), Request{Handle: "1", Folder: "  "})
	assert.ErrorIs(t, err, ErrNoFolder)
}

type fakeSource struct {
	photos []vk.Photo
}

func (f fakeSource) ResolveOwnerID(ctx context.Context, handle string) (int64, error) {
	return 42, nil
}

func (f fakeSource) FetchPhotos(ctx context.Context, ownerID int64, album string) ([]vk.Photo, error) {
	return f.photos, nil
}

type fakeStorage struct {
	folderErr error
	uploads   []string
}

func (f *fakeStorage) CreateFolder(ctx context.Context, path string) (yadisk.FolderResult, error) {
	if f.folderErr != nil {
		return yadisk.FolderResult{}, f.folderErr
	}
	return yadisk.FolderResult{Path: path, Status: http.StatusConflict, AlreadyExists: true}, nil
}

func (f *fakeStorage) UploadByURL(ctx context.Context, path, sourceURL string) error {
	f.uploads = append(f.uploads, path)
	return nil
}

type failingReport struct{}

func (failingReport) Write([]models.UploadRecord) error {
	return apperrors.New(apperrors.KindIO, "write report", "disk full")
}

func (failingReport) Path() string { return "photos_info.json" }

func TestRunWithFakes(t *testing.T) {
	var photos []vk.Photo
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id":1,"date":5,"likes":{"count":1},"sizes":[{"type":"x","url":"u1","width":2,"height":2}]},
		{"id":2,"date":6,"likes":{"count":2},"sizes":[{"type":"x","url":"u2","width":2,"height":2}]}
	]`), &photos))

	cfg := config.DefaultConfig()
	cfg.Upload.Count = 1

	t.Run("existing folder still uploads", func(t *testing.T) {
		storage := &fakeStorage{}
		rw := report.NewWriter(filepath.Join(t.TempDir(), "r.json"))
		summary, err := New(cfg, fakeSource{photos: photos}, storage, rw, nil, logger.NewTestLogger()).
			Run(context.Background(), Request{Handle: "x", Folder: "f"})
		require.NoError(t, err)
		assert.True(t, summary.Folder.AlreadyExists)
		assert.Equal(t, 2, summary.Fetched)
		assert.Equal(t, 1, summary.Selected)
		assert.Equal(t, []string{"f/1.jpg"}, storage.uploads)
	})

	t.Run("folder transport failure", func(t *testing.T) {
		storage := &fakeStorage{folderErr: apperrors.New(apperrors.KindNetwork, "create folder", "refused")}
		_, err := New(cfg, fakeSource{photos: photos}, storage, failingReport{}, nil, logger.NewTestLogger()).
			Run(context.Background(), Request{Handle: "x", Folder: "f"})
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), StageFolder+": "))
		assert.ErrorIs(t, err, apperrors.ErrNetwork)
		assert.Empty(t, storage.uploads)
	})

	t.Run("report failure", func(t *testing.T) {
		_, err := New(cfg, fakeSource{photos: photos}, &fakeStorage{}, failingReport{}, nil, logger.NewTestLogger()).
			Run(context.Background(), Request{Handle: "x", Folder: "f"})
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), StageReport+": "))
		assert.ErrorIs(t, err, apperrors.ErrIO)
	})
}
