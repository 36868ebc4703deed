package backup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"photosync/internal/uploader"
	"photosync/pkg/config"
	"photosync/pkg/logger"
	"photosync/pkg/models"
	"photosync/pkg/report"
	"photosync/pkg/selector"
	"photosync/pkg/vk"
	"photosync/pkg/yadisk"
)

// Stage names used to prefix errors
const (
	StageResolve = "resolve user"
	StageFetch   = "fetch photos"
	StageSelect  = "select photos"
	StageFolder  = "create folder"
	StageUpload  = "upload photos"
	StageReport  = "write report"
)

// ErrNoFolder is returned when a run is started without a destination folder
var ErrNoFolder = errors.New("destination folder is required")

// Request names whose photos to copy and where to
type Request struct {
	Handle string
	Folder string
}

// Summary describes a finished run
type Summary struct {
	OwnerID    int64
	Fetched    int
	Selected   int
	Folder     yadisk.FolderResult
	Records    []models.UploadRecord
	Failures   []models.UploadFailure
	ReportPath string
}

// Runner executes the sync pipeline stage by stage
type Runner struct {
	source   PhotoSource
	storage  Storage
	report   ReportWriter
	progress uploader.Progress
	album    string
	count    int
	failFast bool
	logger   logger.Logger
}

// New wires a Runner from explicit components. progress may be nil.
func New(cfg *config.Config, source PhotoSource, storage Storage, rw ReportWriter, progress uploader.Progress, log logger.Logger) *Runner {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Runner{
		source:   source,
		storage:  storage,
		report:   rw,
		progress: progress,
		album:    cfg.VK.Album,
		count:    cfg.Upload.Count,
		failFast: cfg.FailFast(),
		logger:   log,
	}
}

// NewFromConfig builds the VK and disk clients and the report writer from cfg
func NewFromConfig(cfg *config.Config, progress uploader.Progress, log logger.Logger) *Runner {
	if log == nil {
		log = logger.GetLogger()
	}
	source := vk.NewClient(cfg.VK, cfg.HTTP.Timeout, log)
	storage := yadisk.NewClient(cfg.Disk, cfg.HTTP.Timeout, log)
	return New(cfg, source, storage, report.NewWriter(cfg.Report.Path), progress, log)
}

// Run copies the photos of req.Handle into req.Folder and writes the
// report. Under the fail-fast policy an upload failure ends the run before
// the report is written; the returned summary still holds what was done.
func (r *Runner) Run(ctx context.Context, req Request) (*Summary, error) {
	folder := strings.TrimSpace(req.Folder)
	if folder == "" {
		return nil, ErrNoFolder
	}

	summary := &Summary{}
	log := r.logger.WithFields(map[string]interface{}{
		"handle": req.Handle,
		"folder": folder,
	})
	log.Info("starting sync")

	ownerID, err := r.source.ResolveOwnerID(ctx, req.Handle)
	if err != nil {
		return summary, stageError(StageResolve, err)
	}
	summary.OwnerID = ownerID

	photos, err := r.source.FetchPhotos(ctx, ownerID, r.album)
	if err != nil {
		return summary, stageError(StageFetch, err)
	}
	summary.Fetched = len(photos)

	selected, err := selector.Select(photos, r.count)
	if err != nil {
		return summary, stageError(StageSelect, err)
	}
	summary.Selected = len(selected)

	log.InfoWithFields("photos selected", map[string]interface{}{
		"owner_id": ownerID,
		"fetched":  summary.Fetched,
		"selected": summary.Selected,
	})

	result, err := r.storage.CreateFolder(ctx, folder)
	if err != nil {
		return summary, stageError(StageFolder, err)
	}
	summary.Folder = result

	up := uploader.New(r.storage, r.failFast, r.progress, r.logger)
	uploaded, err := up.Upload(ctx, folder, selected)
	summary.Records = uploaded.Records
	summary.Failures = uploaded.Failures
	if err != nil {
		return summary, stageError(StageUpload, err)
	}

	if err := r.report.Write(summary.Records); err != nil {
		return summary, stageError(StageReport, err)
	}
	summary.ReportPath = r.report.Path()

	log.InfoWithFields("sync complete", map[string]interface{}{
		"uploaded": len(summary.Records),
		"failed":   len(summary.Failures),
		"report":   summary.ReportPath,
	})
	return summary, nil
}

func stageError(stage string, err error) error {
	return fmt.Errorf("%s: %w", stage, err)
}
