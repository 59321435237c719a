package store

import "github.com/shivamhw/reddit-purge/commons"

// Store keeps a copy of an item before it is deleted from reddit.
type Store interface {
	Write(i commons.Item) (string, error)
}
