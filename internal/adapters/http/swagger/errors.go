package swagger

import "errors"

// ErrServe wraps failures rendering the OpenAPI document.
var ErrServe = errors.New("swagger serve failed")
