package ui

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// UploadProgress renders a terminal progress bar with one step per photo
type UploadProgress struct {
	w      io.Writer
	bar    *progressbar.ProgressBar
	done   int
	failed int
}

// NewUploadProgress creates a progress bar that draws to w
func NewUploadProgress(w io.Writer) *UploadProgress {
	return &UploadProgress{w: w}
}

// Start resets the counters and draws an empty bar for total photos
func (p *UploadProgress) Start(total int) {
	p.done, p.failed = 0, 0
	if total <= 0 {
		p.bar = nil
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription("uploading:"),
		progressbar.OptionSetWidth(20), // Fit in an 80-column terminal.
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)
}

// Advance moves the bar by one photo
func (p *UploadProgress) Advance(fileName string, err error) {
	p.done++
	if err != nil {
		p.failed++
	}
	if p.bar == nil {
		return
	}
	p.bar.Describe(fmt.Sprintf("uploading %s:", fileName))
	_ = p.bar.Add(1)
}

// Finish completes the bar and ends the line
func (p *UploadProgress) Finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish() // Ignore error on finish
	fmt.Fprintln(p.w)
}

// Done returns how many photos were processed
func (p *UploadProgress) Done() int {
	return p.done
}

// Failed returns how many uploads failed
func (p *UploadProgress) Failed() int {
	return p.failed
}
