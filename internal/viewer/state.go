package viewer

import (
	"errors"
	"time"
)

// Errors a fetch cycle can surface. Cancellation (context.Canceled) is not
// an error condition; it means the session was deactivated mid-fetch and the
// result was discarded.
var (
	// ErrNotFound means the server reported the resource absent (404).
	// Typically the export pipeline has not produced the image yet.
	ErrNotFound = errors.New("resource not found")

	// ErrUpstream means the server failed to read the resource (5xx or an
	// unexpected status).
	ErrUpstream = errors.New("upstream error")
)

// State is the lifecycle state of a viewer session.
type State int

const (
	// StateInactive is the terminal state after deactivation.
	StateInactive State = iota

	// StateLoading is the initial state before the first successful fetch.
	StateLoading

	// StateDisplaying means a fetched image is currently held.
	StateDisplaying

	// StateError means the most recent fetch failed. Advisory: the last
	// fetched image, if any, is retained and should stay visible.
	StateError
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateLoading:
		return "loading"
	case StateDisplaying:
		return "displaying"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Snapshot is the display handle: the state of a session at one point in
// time. Image is nil until the first successful fetch; a nil Image in
// StateError still renders as the loading placeholder. Image must be treated
// as read-only by consumers.
type Snapshot struct {
	State       State
	Image       []byte
	ContentType string
	ETag        string
	FetchedAt   time.Time
	Err         error
}

// HasImage reports whether the snapshot holds a displayable image.
func (s Snapshot) HasImage() bool {
	return len(s.Image) > 0
}
