package ldes

import (
	"errors"
	"fmt"
)

// Standard errors returned by configuration loading.
var (
	// ErrDuplicateFeed reports two feeds whose derived container names
	// collide after normalization.
	ErrDuplicateFeed = errors.New("duplicate feed name after normalization")
)

// FeedError wraps an error with the feed it belongs to. Failures during
// spawning are isolated per feed: callers log the error and continue with
// the remaining feeds.
type FeedError struct {
	Feed string
	Err  error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("feed %s: %v", e.Feed, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}
