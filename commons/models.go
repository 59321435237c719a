package commons

const (
	DRY_RUN_PREFIX  = "[DRY-RUN] "
	SECONDS_PER_DAY = 86400

	SNIPPET_MAX  = 60
	SNIPPET_KEEP = 57
	ELLIPSIS     = "..."

	UTC_LAYOUT = "2006-01-02 15:04:05 UTC"
)

type CommentSort string

const (
	COMMENTS_NEW CommentSort = "new"
	COMMENTS_TOP CommentSort = "top"
)

// CommentListings are walked in this order; a comment found in more than
// one of them is handled once.
var CommentListings = []CommentSort{COMMENTS_NEW, COMMENTS_TOP}
