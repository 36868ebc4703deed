// Package report writes the JSON summary of a sync run: an indented array
// with one {"file_name", "size"} object per uploaded photo.
//
// The file is written to a temporary sibling first and renamed into place,
// so an interrupted run leaves either the previous report or the new one.
package report
