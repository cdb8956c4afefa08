package report

import "errors"

// ErrMissingCategory is returned when a value the report depends on, such as
// an eligible product type or the weekly capping fare, never occurs.
var ErrMissingCategory = errors.New("missing category")
