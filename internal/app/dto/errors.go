package dto

import "errors"

// Generation errors
var (
	ErrInvalidRequest = errors.New("invalid generate request")
	ErrSampleFailed   = errors.New("edge sampling failed")
	ErrWriteFailed    = errors.New("writing edge list failed")
	ErrArchiveFailed  = errors.New("archiving graph failed")
)
