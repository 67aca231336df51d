package eventstream

import "errors"

// ErrNilExecutionEvent indicates a nil execution event payload was provided
// to a publisher.
var ErrNilExecutionEvent = errors.New("nil execution event")
