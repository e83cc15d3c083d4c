package upload

import "errors"

var (
	ErrFileNotFound  = errors.New("file not found")
	ErrInvalidFileID = errors.New("invalid file ID format")
	ErrFileTooLarge  = errors.New("file is too large")
	ErrEmptyFile     = errors.New("file is empty")
)
