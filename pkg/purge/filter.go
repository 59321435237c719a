package purge

import (
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/go-faster/errors"

	"github.com/shivamhw/reddit-purge/commons"
)

// Env is what a --filter expression can see about an item.
type Env struct {
	Kind      string  `expr:"kind"`
	ID        string  `expr:"id"`
	Subreddit string  `expr:"subreddit"`
	Score     int     `expr:"score"`
	Title     string  `expr:"title"`
	Body      string  `expr:"body"`
	AgeDays   float64 `expr:"age_days"`
}

type Filter struct {
	src  string
	prog *vm.Program
}

// NewFilter compiles src into a boolean program. A blank src gives a nil
// filter, which matches everything.
func NewFilter(src string) (*Filter, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	prog, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, &OpError{Kind: ErrFilter, Op: "compile filter", Err: err}
	}
	return &Filter{src: src, prog: prog}, nil
}

func (f *Filter) Match(item commons.Item, now time.Time) (bool, error) {
	if f == nil {
		return true, nil
	}
	out, err := expr.Run(f.prog, envFor(item, now))
	if err != nil {
		return false, errors.Wrapf(err, "evaluate %q", f.src)
	}
	ok, _ := out.(bool)
	return ok, nil
}

func envFor(item commons.Item, now time.Time) Env {
	env := Env{
		Kind:    string(item.Kind()),
		ID:      item.GetID(),
		AgeDays: now.Sub(item.Created()).Hours() / 24,
	}
	switch v := item.(type) {
	case *commons.Submission:
		env.Subreddit = v.SubredditName
		env.Score = v.Score
		env.Title = v.Title
		env.Body = v.Body
	case *commons.Comment:
		env.Subreddit = v.SubredditName
		env.Score = v.Score
		env.Title = v.PostTitle
		env.Body = v.Body
	}
	return env
}
