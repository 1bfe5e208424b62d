package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrEmptyContent = errors.New("entry content is empty")
)
