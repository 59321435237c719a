package purge

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/go-faster/errors"
	"go.uber.org/multierr"

	"github.com/shivamhw/reddit-purge/commons"
	. "github.com/shivamhw/reddit-purge/pkg/log"
	"github.com/shivamhw/reddit-purge/sources"
	"github.com/shivamhw/reddit-purge/store"
)

type Options struct {
	OlderThanDays   int
	DryRun          bool
	SkipSubmissions bool
	SkipComments    bool
	ContinueOnError bool
	Filter          string
	ArchiveDir      string
	Now             func() time.Time
}

// Runner walks the account once. It owns the seen-comment set and the
// summary, so a Runner is good for a single Run.
type Runner struct {
	src     sources.Source
	opts    *Options
	out     io.Writer
	filter  *Filter
	archive store.Store

	cutoff time.Time
	seen   seenSet
	sum    *Summary
	failed error
}

type seenSet map[string]struct{}

// add reports whether id was new.
func (s seenSet) add(id string) bool {
	if _, exists := s[id]; exists {
		return false
	}
	s[id] = struct{}{}
	return true
}

func (o *Options) sanitize() error {
	if o.OlderThanDays < 0 {
		return errors.Errorf("older-than must not be negative, got %d", o.OlderThanDays)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return nil
}

// NewRunner validates opts and compiles the filter. Nothing touches the
// network until Run.
func NewRunner(opts *Options, out io.Writer) (*Runner, error) {
	if err := opts.sanitize(); err != nil {
		return nil, err
	}
	f, err := NewFilter(opts.Filter)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		opts:   opts,
		out:    out,
		filter: f,
	}
	if opts.ArchiveDir != "" && !opts.DryRun {
		fs, err := store.NewFileStore(opts.ArchiveDir)
		if err != nil {
			return nil, err
		}
		r.archive = fs
	}
	return r, nil
}

// WithArchive replaces the archive items are written to before deletion.
func (r *Runner) WithArchive(s store.Store) *Runner {
	r.archive = s
	return r
}

// Run processes submissions then comments, prints the summary and returns
// it. The first listing or delete error stops the run unless
// ContinueOnError is set, in which case failed items are tallied and all
// of their errors are returned together at the end.
func (r *Runner) Run(ctx context.Context, src sources.Source) (*Summary, error) {
	r.src = src
	r.cutoff = commons.Cutoff(r.opts.Now(), r.opts.OlderThanDays)
	r.seen = make(seenSet)
	r.sum = &Summary{
		DryRun:        r.opts.DryRun,
		TrackFailures: r.opts.ContinueOnError,
	}
	Infof("starting purge", "cutoff", r.cutoff.UTC(), "dry_run", r.opts.DryRun)

	err := r.processSubmissions(ctx)
	if err == nil {
		err = r.processComments(ctx)
	}
	r.sum.Report(r.out)
	return r.sum, multierr.Append(err, r.failed)
}

func (r *Runner) processSubmissions(ctx context.Context) error {
	if r.opts.SkipSubmissions {
		Infof("skipping submissions")
		return nil
	}
	err := r.src.Submissions(ctx, func(s *commons.Submission) error {
		r.sum.Posts.Processed.Inc()
		return r.handle(ctx, s, "Post: "+s.Title, &r.sum.Posts, func(ctx context.Context) error {
			return r.src.DeleteSubmission(ctx, s)
		})
	})
	return listingErr(err, "list submissions")
}

func (r *Runner) processComments(ctx context.Context) error {
	if r.opts.SkipComments {
		Infof("skipping comments")
		return nil
	}
	for _, sort := range commons.CommentListings {
		err := r.src.Comments(ctx, sort, func(c *commons.Comment) error {
			return r.visitComment(ctx, c)
		})
		if err := listingErr(err, fmt.Sprintf("list %s comments", sort)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) visitComment(ctx context.Context, c *commons.Comment) error {
	if !r.seen.add(c.ID) {
		Debugf("comment already seen", "id", c.ID)
		return nil
	}
	r.sum.Comments.Processed.Inc()
	text := fmt.Sprintf("Comment %s: %s", c.ID, commons.Snippet(c.Body))
	return r.handle(ctx, c, text, &r.sum.Comments, func(ctx context.Context) error {
		return r.src.DeleteComment(ctx, c)
	})
}

// handle reports an item older than the cutoff and then deletes it unless
// this is a dry run.
func (r *Runner) handle(ctx context.Context, item commons.Item, text string, c *Counters, del func(context.Context) error) error {
	if !item.Created().Before(r.cutoff) {
		return nil
	}
	ok, err := r.filter.Match(item, r.opts.Now())
	if err != nil {
		return r.fail(c, &OpError{Kind: ErrFilter, Op: fmt.Sprintf("filter %s %s", item.Kind(), item.GetID()), Err: err})
	}
	if !ok {
		Debugf("filter excluded item", "kind", item.Kind(), "id", item.GetID())
		return nil
	}

	fmt.Fprintf(r.out, "%s%s (created %s)\n", r.prefix(), text, commons.HumanUTC(item.Created()))
	if r.opts.DryRun {
		return nil
	}
	if r.archive != nil {
		if _, err := r.archive.Write(item); err != nil {
			return r.fail(c, &OpError{Kind: ErrArchive, Op: fmt.Sprintf("archive %s %s", item.Kind(), item.GetID()), Err: err})
		}
	}
	if err := del(ctx); err != nil {
		return r.fail(c, &OpError{Kind: ErrDelete, Op: fmt.Sprintf("delete %s %s", item.Kind(), item.GetID()), Err: err})
	}
	c.Deleted.Inc()
	Infof("deleted", "kind", item.Kind(), "id", item.GetID())
	return nil
}

func (r *Runner) fail(c *Counters, err error) error {
	if !r.opts.ContinueOnError {
		return err
	}
	c.Failed.Inc()
	Errorf("item failed, continuing", "error", err)
	r.failed = multierr.Append(r.failed, err)
	return nil
}

func (r *Runner) prefix() string {
	if !r.opts.DryRun {
		return ""
	}
	return color.YellowString(commons.DRY_RUN_PREFIX)
}

// listingErr leaves errors raised for a single item alone and marks the
// rest as listing failures.
func listingErr(err error, op string) error {
	if err == nil {
		return nil
	}
	var opErr *OpError
	if errors.As(err, &opErr) {
		return err
	}
	return &OpError{Kind: ErrListing, Op: op, Err: err}
}
