package pipeline

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"rigal/internal/report"
)

// WriteSummary prints the end-of-build table followed by every warning.
func WriteSummary(w io.Writer, s *report.Summary) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Build " + s.BuildID)
	tw.AppendHeader(table.Row{"", "Count"})
	tw.AppendRows([]table.Row{
		{"Albums", humanize.Comma(int64(s.Albums))},
		{"Images", humanize.Comma(int64(s.Images))},
		{"  succeeded", humanize.Comma(int64(s.ImagesSucceeded()))},
		{"  generated", humanize.Comma(int64(s.ImagesGenerated))},
		{"  skipped", humanize.Comma(int64(s.ImagesSkipped))},
		{"  failed", humanize.Comma(int64(s.ImagesFailed))},
		{"Pages rendered", humanize.Comma(int64(s.PagesRendered))},
		{"Pages failed", humanize.Comma(int64(s.PagesFailed))},
		{"Warnings", strconv.Itoa(len(s.Warnings))},
	})
	tw.AppendFooter(table.Row{"Written", humanize.Bytes(uint64(max(s.BytesWritten, 0)))})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	fmt.Fprintln(w, tw.Render())
	fmt.Fprintf(w, "Finished in %s\n", s.Duration.Round(time.Millisecond))

	if len(s.Warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d warning(s):\n", len(s.Warnings))
	for _, warning := range s.Warnings {
		fmt.Fprintf(w, "  %s\n", warning)
	}
}

// SummaryLine is a one-line digest used in watch mode.
func SummaryLine(s *report.Summary) string {
	return fmt.Sprintf("%d images (%d generated, %d skipped, %d failed), %d pages, %d warnings in %s",
		s.Images, s.ImagesGenerated, s.ImagesSkipped, s.ImagesFailed,
		s.PagesRendered, len(s.Warnings), s.Duration.Round(time.Millisecond))
}
