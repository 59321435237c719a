package sources

import (
	"context"

	"github.com/shivamhw/reddit-purge/commons"
)

// Source lists the acting user's content and deletes it. Listings call fn
// once per item in listing order and stop at the first error fn returns.
type Source interface {
	Submissions(ctx context.Context, fn func(*commons.Submission) error) error
	Comments(ctx context.Context, sort commons.CommentSort, fn func(*commons.Comment) error) error
	DeleteSubmission(ctx context.Context, s *commons.Submission) error
	DeleteComment(ctx context.Context, c *commons.Comment) error
}

// AccountSource is a Source that knows which account it acts as.
type AccountSource interface {
	Source
	Me() *Account
}
