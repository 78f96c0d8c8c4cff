package encode

import "errors"

// ErrEncoding is wrapped by every serialization failure: comment bodies
// containing "--", processing instruction data containing "?>", and
// invalid target nodes.
var ErrEncoding = errors.New("encoding error")
