package repository

import "errors"

var (
	ErrInvalidAnalysisData = errors.New("invalid analysis data")
)
