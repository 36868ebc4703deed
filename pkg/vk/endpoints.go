package vk

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultBaseURL is the VK API method root
	DefaultBaseURL = "https://api.vk.com/method"

	// DefaultAPIVersion is the API version sent as the v parameter
	DefaultAPIVersion = "5.199"

	// DefaultAlbum is the album read when none is given
	DefaultAlbum = "wall"

	usersGetMethod  = "users.get"
	photosGetMethod = "photos.get"
)

// profilePrefixes are stripped from handles pasted as profile links
var profilePrefixes = []string{
	"https://vk.com/",
	"http://vk.com/",
	"https://m.vk.com/",
	"vk.com/",
}

// SanitizeHandle trims whitespace, a leading @, a profile URL prefix and
// trailing slashes from a user-supplied handle
func SanitizeHandle(handle string) string {
	handle = strings.TrimSpace(handle)
	for _, prefix := range profilePrefixes {
		if strings.HasPrefix(strings.ToLower(handle), prefix) {
			handle = handle[len(prefix):]
			break
		}
	}
	handle = strings.TrimPrefix(handle, "@")
	return strings.TrimRight(handle, "/ ")
}

// ParseNumericID returns the owner ID when handle is purely numeric. A single
// leading minus is allowed since community walls have negative owner IDs.
func ParseNumericID(handle string) (int64, bool) {
	digits := strings.TrimPrefix(handle, "-")
	if digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(handle, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// methodURL builds the URL for a VK API method call
func (c *Client) methodURL(method string, params url.Values) string {
	params.Set("access_token", c.token)
	params.Set("v", c.apiVersion)
	return strings.TrimRight(c.baseURL, "/") + "/" + method + "?" + params.Encode()
}

// usersGetURL builds the users.get call used to resolve an alias
func (c *Client) usersGetURL(alias string) string {
	params := url.Values{}
	params.Set("user_ids", alias)
	return c.methodURL(usersGetMethod, params)
}

// photosGetURL builds the photos.get call for an owner and album
func (c *Client) photosGetURL(ownerID int64, album string) string {
	params := url.Values{}
	params.Set("owner_id", strconv.FormatInt(ownerID, 10))
	params.Set("album_id", album)
	params.Set("extended", "1")
	params.Set("photo_sizes", "1")
	return c.methodURL(photosGetMethod, params)
}
