package vk

import "encoding/json"

// envelope is the top-level shape of every VK API response: either
// "response" or "error" is present
type envelope struct {
	Response json.RawMessage `json:"response"`
	Error    *APIError       `json:"error"`
}

// APIError is the error object VK returns instead of a response
type APIError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

// User is one entry of a users.get response
type User struct {
	ID         *int64 `json:"id"`
	ScreenName string `json:"screen_name,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
}

// photosResponse is the photos.get response body
type photosResponse struct {
	Count *int    `json:"count"`
	Items []Photo `json:"items"`
}

// Photo is a photo as returned by photos.get with extended=1 and
// photo_sizes=1. Fields the selector depends on are pointers so that an
// absent field can be told apart from a zero value.
type Photo struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"owner_id"`
	AlbumID int64  `json:"album_id"`
	Date    *int64 `json:"date"`
	Likes   *Likes `json:"likes"`
	Sizes   []Size `json:"sizes"`
}

// Likes holds the like counter of a photo
type Likes struct {
	Count *int `json:"count"`
}

// Size is one resolution variant of a photo
type Size struct {
	Type   string `json:"type"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
