package sources

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/jinzhu/copier"
	"github.com/vartanbeno/go-reddit/v2/reddit"

	"github.com/shivamhw/reddit-purge/commons"
	"github.com/shivamhw/reddit-purge/config"
	. "github.com/shivamhw/reddit-purge/pkg/log"
)

const DefaultPageSize = 100

var ErrAuth = errors.New("reddit authentication failed")

// AuthError matches ErrAuth and keeps the underlying cause.
type AuthError struct {
	User string
	Err  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("login as %q: %s", e.User, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) Is(target error) bool { return target == ErrAuth }

type RedditSourceOpts struct {
	PageSize   int
	HTTPClient *http.Client
	BaseURL    string
	TokenURL   string
}

type Account struct {
	Name         string
	PostKarma    int
	CommentKarma int
	Created      time.Time
}

type RedditSource struct {
	client *reddit.Client
	opts   *RedditSourceOpts
	me     *Account
}

func (o *RedditSourceOpts) sanitize() {
	if o.PageSize <= 0 || o.PageSize > DefaultPageSize {
		o.PageSize = DefaultPageSize
	}
}

// NewRedditSource logs in with the script-app credentials and checks them
// by fetching the account. It does not retry.
func NewRedditSource(ctx context.Context, cfg *config.Config, opts *RedditSourceOpts) (*RedditSource, error) {
	if opts == nil {
		opts = &RedditSourceOpts{}
	}
	opts.sanitize()
	credentials := reddit.Credentials{
		ID:       cfg.ClientID,
		Secret:   cfg.ClientSecret,
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clientOpts := []reddit.Opt{reddit.WithUserAgent(cfg.UserAgent)}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, reddit.WithHTTPClient(opts.HTTPClient))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, reddit.WithBaseURL(opts.BaseURL))
	}
	if opts.TokenURL != "" {
		clientOpts = append(clientOpts, reddit.WithTokenURL(opts.TokenURL))
	}
	c, err := reddit.NewClient(credentials, clientOpts...)
	if err != nil {
		return nil, &AuthError{User: cfg.Username, Err: err}
	}
	r := &RedditSource{
		client: c,
		opts:   opts,
	}

	u, _, err := c.Account.Info(ctx)
	if err != nil {
		return nil, &AuthError{User: cfg.Username, Err: err}
	}
	r.me = &Account{
		Name:         u.Name,
		PostKarma:    u.PostKarma,
		CommentKarma: u.CommentKarma,
	}
	if u.Created != nil {
		r.me.Created = u.Created.Time.UTC()
	}
	Infof("logged in to reddit", "user", u.Name)
	return r, nil
}

func (r *RedditSource) Me() *Account {
	return r.me
}

// Submissions walks the user's posts newest first until reddit stops
// returning an after token.
func (r *RedditSource) Submissions(ctx context.Context, fn func(*commons.Submission) error) error {
	nextToken := ""
	for {
		posts, resp, err := r.client.User.Posts(ctx, &reddit.ListUserOverviewOptions{
			ListOptions: reddit.ListOptions{
				Limit: r.opts.PageSize,
				After: nextToken,
			},
			Sort: "new",
		})
		if err != nil {
			return errors.Wrap(err, "list submissions")
		}
		Debugf("fetched submissions page", "after", nextToken, "count", len(posts))
		for _, p := range posts {
			s, err := toSubmission(p)
			if err != nil {
				return err
			}
			if err := fn(s); err != nil {
				return err
			}
		}
		nextToken = resp.After
		if nextToken == "" {
			return nil
		}
	}
}

func (r *RedditSource) Comments(ctx context.Context, sort commons.CommentSort, fn func(*commons.Comment) error) error {
	opts := &reddit.ListUserOverviewOptions{
		ListOptions: reddit.ListOptions{Limit: r.opts.PageSize},
		Sort:        string(sort),
	}
	if sort == commons.COMMENTS_TOP {
		opts.Time = "all"
	}
	for {
		comments, resp, err := r.client.User.Comments(ctx, opts)
		if err != nil {
			return errors.Wrapf(err, "list %s comments", sort)
		}
		Debugf("fetched comments page", "sort", sort, "after", opts.After, "count", len(comments))
		for _, cm := range comments {
			c, err := toComment(cm)
			if err != nil {
				return err
			}
			if err := fn(c); err != nil {
				return err
			}
		}
		opts.After = resp.After
		if opts.After == "" {
			return nil
		}
	}
}

func (r *RedditSource) DeleteSubmission(ctx context.Context, s *commons.Submission) error {
	if _, err := r.client.Post.Delete(ctx, s.FullID); err != nil {
		return errors.Wrapf(err, "delete %s", s.FullID)
	}
	return nil
}

func (r *RedditSource) DeleteComment(ctx context.Context, c *commons.Comment) error {
	if _, err := r.client.Comment.Delete(ctx, c.FullID); err != nil {
		return errors.Wrapf(err, "delete %s", c.FullID)
	}
	return nil
}

func toSubmission(p *reddit.Post) (*commons.Submission, error) {
	s := &commons.Submission{}
	if err := copier.Copy(s, p); err != nil {
		return nil, errors.Wrapf(err, "convert post %s", p.ID)
	}
	if p.Created != nil {
		s.CreatedUTC = p.Created.Time.UTC()
	}
	return s, nil
}

func toComment(c *reddit.Comment) (*commons.Comment, error) {
	cm := &commons.Comment{}
	if err := copier.Copy(cm, c); err != nil {
		return nil, errors.Wrapf(err, "convert comment %s", c.ID)
	}
	if c.Created != nil {
		cm.CreatedUTC = c.Created.Time.UTC()
	}
	return cm, nil
}
