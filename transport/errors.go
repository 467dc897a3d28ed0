package transport

import "errors"

// ErrNotDialed is returned by Send when called before Dial has established
// a connection.
var ErrNotDialed = errors.New("transport not dialed")
