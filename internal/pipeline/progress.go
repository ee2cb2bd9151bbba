package pipeline

import (
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// newProgress returns a bar that only draws when progress is enabled and
// the writer is a terminal.
func newProgress(opts Options, total int, description string) *progressbar.ProgressBar {
	w := opts.Stderr
	if w == nil {
		w = io.Discard
	}
	visible := opts.Progress && isTerminal(w) && total > 0

	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetVisibility(visible),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func addProgress(bar *progressbar.ProgressBar) {
	_ = bar.Add(1)
}

func finishProgress(bar *progressbar.ProgressBar) {
	_ = bar.Finish()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
