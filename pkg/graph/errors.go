package graph

import "errors"

// ErrPropertyNotFound is returned by Node.Property when the key is missing.
var ErrPropertyNotFound = errors.New("property not found")
