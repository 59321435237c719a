package commons

import (
	"time"
)

type Kind string

const (
	SUBMISSION Kind = "submission"
	COMMENT    Kind = "comment"
)

// Item is what submissions and comments have in common: an id, a creation
// time, and a source that can delete them.
type Item interface {
	Kind() Kind
	GetID() string
	Created() time.Time
}

type Submission struct {
	ID            string    `json:"id"`
	FullID        string    `json:"full_id"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	SubredditName string    `json:"subreddit"`
	Score         int       `json:"score"`
	Permalink     string    `json:"permalink"`
	CreatedUTC    time.Time `json:"created_utc"`
}

func (s *Submission) Kind() Kind         { return SUBMISSION }
func (s *Submission) GetID() string      { return s.ID }
func (s *Submission) Created() time.Time { return s.CreatedUTC }

type Comment struct {
	ID            string    `json:"id"`
	FullID        string    `json:"full_id"`
	Body          string    `json:"body"`
	SubredditName string    `json:"subreddit"`
	PostTitle     string    `json:"post_title"`
	Score         int       `json:"score"`
	Permalink     string    `json:"permalink"`
	CreatedUTC    time.Time `json:"created_utc"`
}

func (c *Comment) Kind() Kind         { return COMMENT }
func (c *Comment) GetID() string      { return c.ID }
func (c *Comment) Created() time.Time { return c.CreatedUTC }
