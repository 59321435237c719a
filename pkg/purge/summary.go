package purge

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"go.uber.org/atomic"
)

const labelWidth = 20

const notes = `Notes:
- Use --older-than N to avoid deleting recent content.
- --dry-run shows what would be deleted without performing deletions.
- Private messages must be deleted manually in the inbox.
- Reddit APIs are rate-limited; very large accounts may require multiple runs.
`

type Counters struct {
	Processed atomic.Int64
	Deleted   atomic.Int64
	Failed    atomic.Int64
}

type Summary struct {
	Posts    Counters
	Comments Counters

	DryRun        bool
	TrackFailures bool
}

// Report prints the counters followed by the usage notes.
func (s *Summary) Report(w io.Writer) {
	simulated := ""
	if s.DryRun {
		simulated = " (simulated)"
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.New(color.Bold).Sprint("Summary"))
	fmt.Fprintln(w, "-------")
	row(w, "Processed posts:", s.Posts.Processed.Load(), "")
	row(w, "Deleted posts:", s.Posts.Deleted.Load(), simulated)
	if s.TrackFailures {
		row(w, "Failed posts:", s.Posts.Failed.Load(), "")
	}
	row(w, "Processed comments:", s.Comments.Processed.Load(), "")
	row(w, "Deleted comments:", s.Comments.Deleted.Load(), simulated)
	if s.TrackFailures {
		row(w, "Failed comments:", s.Comments.Failed.Load(), "")
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, notes)
}

func row(w io.Writer, label string, n int64, suffix string) {
	fmt.Fprintf(w, "%s%d%s\n", runewidth.FillRight(label, labelWidth), n, suffix)
}
