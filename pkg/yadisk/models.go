package yadisk

// FolderResult describes what the service answered to a folder creation
// request. A folder that could not be created is not an error by itself.
type FolderResult struct {
	Path          string `json:"path"`
	Status        int    `json:"status"`
	Created       bool   `json:"created"`
	AlreadyExists bool   `json:"already_exists"`
	Message       string `json:"message,omitempty"`
}

// apiError is the error body returned by the disk API
type apiError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
	Error       string `json:"error"`
}

// text returns the most descriptive message available
func (e apiError) text() string {
	switch {
	case e.Message != "" && e.Description != "" && e.Message != e.Description:
		return e.Message + " (" + e.Description + ")"
	case e.Message != "":
		return e.Message
	case e.Description != "":
		return e.Description
	default:
		return e.Error
	}
}

// link is returned on 201/202 and points at the created resource or the
// asynchronous operation
type link struct {
	Href   string `json:"href"`
	Method string `json:"method"`
}

const errPathExists = "DiskPathPointsToExistentDirectoryError"
