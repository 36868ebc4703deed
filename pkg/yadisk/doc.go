// Package yadisk is the cloud storage client for the Yandex Disk REST API.
// It creates folders and asks the service to fetch files by URL, so photo
// bytes never pass through this process.
//
// The token is sent verbatim in the Authorization header; include the
// "OAuth " prefix in the configured value if the service expects it.
package yadisk
