package history

import "errors"

var (
	ErrMissingEntry  = errors.New("archive does not contain " + ArchiveEntry)
	ErrMissingColumn = errors.New("missing column")
	ErrMalformedRow  = errors.New("malformed row")
	ErrEmpty         = errors.New("trip history has no trips")
)
