package purge

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	ErrListing = errors.New("listing failed")
	ErrDelete  = errors.New("delete failed")
	ErrFilter  = errors.New("filter failed")
	ErrArchive = errors.New("archive failed")
)

// OpError is a failed step of a run. errors.Is matches it
// against its Kind as well as anything in Err's chain.
type OpError struct {
	Kind error
	Op   string
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func (e *OpError) Is(target error) bool { return target == e.Kind }
