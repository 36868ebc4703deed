package backup

import (
	"context"

	"photosync/pkg/models"
	"photosync/pkg/vk"
	"photosync/pkg/yadisk"
)

// PhotoSource resolves handles and lists album photos
type PhotoSource interface {
	ResolveOwnerID(ctx context.Context, handle string) (int64, error)
	FetchPhotos(ctx context.Context, ownerID int64, album string) ([]vk.Photo, error)
}

// Storage creates folders and accepts uploads by URL
type Storage interface {
	CreateFolder(ctx context.Context, path string) (yadisk.FolderResult, error)
	UploadByURL(ctx context.Context, path, sourceURL string) error
}

// ReportWriter persists the upload records of a run
type ReportWriter interface {
	Write(records []models.UploadRecord) error
	Path() string
}
