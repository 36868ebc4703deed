package models

// SelectedPhoto is a photo reduced to its largest size variant
type SelectedPhoto struct {
	Likes    int    `json:"likes"`
	Date     int64  `json:"date"`
	URL      string `json:"url"`
	SizeType string `json:"size_type"`
}

// UploadRecord is one photo the storage service accepted. It is the element
// type of the JSON report.
type UploadRecord struct {
	FileName string `json:"file_name"`
	Size     string `json:"size"`
}

// UploadFailure is one photo the storage service did not accept during a
// best-effort run
type UploadFailure struct {
	FileName string `json:"file_name"`
	URL      string `json:"url"`
	Err      error  `json:"-"`
}

// Error returns the failure reason as text
func (f UploadFailure) Error() string {
	if f.Err == nil {
		return f.FileName + ": upload failed"
	}
	return f.FileName + ": " + f.Err.Error()
}
