// Package backup runs the sync pipeline: resolve the user, fetch the album,
// keep the largest variant of the first N photos, create the destination
// folder, upload by URL and write the JSON report.
//
// Stages run strictly in order on the calling goroutine. Every error is
// prefixed with the name of the stage that produced it, for example
// "fetch photos: photos.get: photo_fetch error (code 15): Access denied".
package backup
