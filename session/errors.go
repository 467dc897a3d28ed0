package session

import "errors"

// ErrNotConnected is returned by outbound Client operations issued while the
// Connection is not in the Connected state.
var ErrNotConnected = errors.New("client is not connected")
