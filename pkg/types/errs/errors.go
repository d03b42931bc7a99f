package errs

import "errors"

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrUnknownCategory = errors.New("unknown category")
	ErrIndexNotReady   = errors.New("search index not ready")
	ErrMalformedEvent  = errors.New("malformed event")
)
