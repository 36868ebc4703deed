// Package uploader pushes selected photos to cloud storage one at a time,
// choosing a collision-free file name for each and applying the configured
// failure policy.
package uploader

import (
	"context"
	"path"
	"strconv"
	"time"

	apperrors "photosync/pkg/errors"
	"photosync/pkg/logger"
	"photosync/pkg/models"
)

// Storage is the part of the disk client the uploader needs
type Storage interface {
	UploadByURL(ctx context.Context, path, sourceURL string) error
}

// Progress receives one Advance call per photo between Start and Finish
type Progress interface {
	Start(total int)
	Advance(fileName string, err error)
	Finish()
}

// UploadJob is a single photo bound to its remote path
type UploadJob struct {
	Photo    models.SelectedPhoto
	FileName string
	Path     string
}

// UploadResult is the outcome of one job
type UploadResult struct {
	Job      UploadJob
	Success  bool
	Error    error
	Duration time.Duration
}

// Result collects the acknowledged uploads and, under the best-effort
// policy, the ones that failed
type Result struct {
	Records  []models.UploadRecord
	Failures []models.UploadFailure
}

// Uploader uploads photos sequentially
type Uploader struct {
	storage  Storage
	failFast bool
	progress Progress
	logger   logger.Logger
}

// New creates an Uploader. With failFast the first failed upload ends the
// run; otherwise failures are collected. progress may be nil.
func New(storage Storage, failFast bool, progress Progress, log logger.Logger) *Uploader {
	if log == nil {
		log = logger.GetLogger()
	}
	if progress == nil {
		progress = nopProgress{}
	}
	return &Uploader{
		storage:  storage,
		failFast: failFast,
		progress: progress,
		logger:   log,
	}
}

// Upload sends every photo into folder in order. Records only ever hold
// uploads the storage acknowledged. Under fail-fast the first failure is
// returned together with the records gathered so far.
func (u *Uploader) Upload(ctx context.Context, folder string, photos []models.SelectedPhoto) (Result, error) {
	var result Result
	used := make(map[string]bool, len(photos))

	u.progress.Start(len(photos))
	defer u.progress.Finish()

	for _, photo := range photos {
		if err := ctx.Err(); err != nil {
			return result, apperrors.Wrap(apperrors.KindNetwork, "upload", err)
		}

		name := FileName(photo, used)
		job := UploadJob{
			Photo:    photo,
			FileName: name,
			Path:     path.Join(folder, name),
		}

		res := u.process(ctx, job)
		u.progress.Advance(name, res.Error)

		if !res.Success {
			if u.failFast {
				return result, uploadError(job, res.Error)
			}
			result.Failures = append(result.Failures, models.UploadFailure{
				FileName: name,
				URL:      photo.URL,
				Err:      res.Error,
			})
			continue
		}

		used[name] = true
		result.Records = append(result.Records, models.UploadRecord{
			FileName: name,
			Size:     photo.SizeType,
		})
	}

	u.logger.InfoWithFields("upload finished", map[string]interface{}{
		"folder":   folder,
		"uploaded": len(result.Records),
		"failed":   len(result.Failures),
	})
	return result, nil
}

func (u *Uploader) process(ctx context.Context, job UploadJob) UploadResult {
	start := time.Now()

	u.logger.DebugWithFields("uploading photo", map[string]interface{}{
		"path":  job.Path,
		"likes": job.Photo.Likes,
	})

	err := u.storage.UploadByURL(ctx, job.Path, job.Photo.URL)
	result := UploadResult{
		Job:      job,
		Success:  err == nil,
		Error:    err,
		Duration: time.Since(start),
	}

	if err != nil {
		u.logger.ErrorWithFields("upload failed", map[string]interface{}{
			"path":     job.Path,
			"error":    err.Error(),
			"duration": result.Duration,
		})
	}
	return result
}

// uploadError makes sure a failed job surfaces as an upload error while
// keeping the original cause in the chain
func uploadError(job UploadJob, err error) error {
	if apperrors.KindOf(err) == apperrors.KindUpload {
		return err
	}
	return &apperrors.Error{
		Kind:    apperrors.KindUpload,
		Op:      "upload",
		Message: job.Path,
		Err:     err,
	}
}

// FileName returns the first free name out of "<likes>.jpg",
// "<likes>_<date>.jpg", "<likes>_<date>_2.jpg", "<likes>_<date>_3.jpg", ...
func FileName(photo models.SelectedPhoto, used map[string]bool) string {
	likes := strconv.Itoa(photo.Likes)
	name := likes + ".jpg"
	if !used[name] {
		return name
	}

	base := likes + "_" + strconv.FormatInt(photo.Date, 10)
	name = base + ".jpg"
	for n := 2; used[name]; n++ {
		name = base + "_" + strconv.Itoa(n) + ".jpg"
	}
	return name
}

type nopProgress struct{}

func (nopProgress) Start(int) {}

func (nopProgress) Advance(string, error) {}

func (nopProgress) Finish() {}
