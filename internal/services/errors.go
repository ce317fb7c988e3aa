package services

import "errors"

// Session service errors
var (
	ErrNoData          = errors.New("no data uploaded")
	ErrFileNotFound    = errors.New("file not found in session")
	ErrTooManyFiles    = errors.New("too many files in session")
	ErrEmptyUpload     = errors.New("uploaded file is empty")
	ErrUploadTooLarge  = errors.New("uploaded file exceeds size limit")
	ErrInvalidCriteria = errors.New("invalid filter criteria")
)
