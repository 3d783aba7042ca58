package models

import "errors"

// ErrUnknownValue is wrapped by every Parse* function when the input is not part of the
// closed set of accepted values.
var ErrUnknownValue = errors.New("unrecognized value")
