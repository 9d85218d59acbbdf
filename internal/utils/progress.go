package utils

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Standard progress bar descriptions
const (
	DescExamining = "Examining"
	DescCloning   = "Cloning"
)

// ProgressBarOptions contains options for NewProgressBar
type ProgressBarOptions struct {
	Description string
	Output      io.Writer // defaults to os.Stderr so stdout stays free for the report
	Hidden      bool
}

// NewProgressBar creates a consistently styled percentage bar.
//
// The bar always counts to 100; callers feed it absolute percentages via
// Set. Finish is expected once the run has completed, since examination
// progress never reports 100 on its own.
//
// Example:
//
//	bar := utils.NewProgressBar(utils.ProgressBarOptions{Description: utils.DescExamining})
//	_ = bar.Set(42)
//	_ = bar.Finish()
func NewProgressBar(opts ProgressBarOptions) *progressbar.ProgressBar {
	if opts.Description == "" {
		opts.Description = DescExamining
	}

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	if opts.Hidden {
		output = io.Discard
	}

	return progressbar.NewOptions(100,
		progressbar.OptionSetDescription(opts.Description),
		progressbar.OptionSetWriter(output),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
}
