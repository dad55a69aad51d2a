package preview

import "errors"

// ErrNoDocument indicates an operation needs a bound document.
var ErrNoDocument = errors.New("no document loaded")
