package surface

import "errors"

// ErrUnknownFunction indicates a name outside the function library.
var ErrUnknownFunction = errors.New("surface: unknown function")
