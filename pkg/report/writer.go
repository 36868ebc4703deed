package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	apperrors "photosync/pkg/errors"
	"photosync/pkg/models"
)

// DefaultPath is used when the writer is given an empty path
const DefaultPath = "photos_info.json"

const opWrite = "write report"

// Writer persists upload records to a single file
type Writer struct {
	path string
}

// NewWriter creates a Writer for path
func NewWriter(path string) *Writer {
	if path == "" {
		path = DefaultPath
	}
	return &Writer{path: path}
}

// Path returns the file the report is written to
func (w *Writer) Path() string {
	return w.path
}

// Write replaces the report with records. A nil slice is written as [].
func (w *Writer) Write(records []models.UploadRecord) error {
	if records == nil {
		records = []models.UploadRecord{}
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return apperrors.Wrap(apperrors.KindIO, opWrite, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ioError("failed to create report directory", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return ioError("failed to create temporary file", err)
	}
	tempFile := tmp.Name()

	_, err = tmp.Write(data)
	closeErr := tmp.Close()

	if err != nil {
		os.Remove(tempFile)
		return ioError("failed to write report data", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return ioError("failed to close file", closeErr)
	}

	if err := os.Chmod(tempFile, 0644); err != nil {
		os.Remove(tempFile)
		return ioError("failed to set permissions", err)
	}

	// Atomic rename
	if err := os.Rename(tempFile, w.path); err != nil {
		os.Remove(tempFile)
		return ioError("failed to rename temporary file", err)
	}

	return nil
}

// Read loads a report written by Write
func Read(path string) ([]models.UploadRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError("failed to read report", err)
	}

	var records []models.UploadRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &apperrors.Error{
			Kind:    apperrors.KindDataShape,
			Op:      "read report",
			Message: fmt.Sprintf("invalid report %s", path),
			Err:     err,
		}
	}
	return records, nil
}

func ioError(msg string, err error) error {
	return &apperrors.Error{
		Kind:    apperrors.KindIO,
		Op:      opWrite,
		Message: msg,
		Err:     err,
	}
}
