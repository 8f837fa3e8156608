package analyses

import "errors"

var (
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrInvalidSourceID  = errors.New("invalid source id")
)
