package topic

import "errors"

// ErrDispatcherFull is returned by Register when the table already holds the
// configured maximum number of entries.
var ErrDispatcherFull = errors.New("topic dispatcher table is full")

// ErrNotRegistered describes a filter with no registered handler. Unregister
// does not return it: unregistering an unknown filter is a no-op.
var ErrNotRegistered = errors.New("no handler registered for filter")
