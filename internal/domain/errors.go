package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTask       = errors.New("invalid task")
	ErrAllocation        = errors.New("point storage exhausted")
	ErrDegenerateInput   = errors.New("degenerate input")
	ErrHullComputation   = errors.New("hull computation failed")
	ErrAnalysisNotFound  = errors.New("analysis not found")
	ErrInvalidRandSetup  = errors.New("invalid random setup")
	ErrInvalidTaskStream = errors.New("invalid task set stream")
)

// Stage names the pipeline step an AnalysisError was raised in.
type Stage string

const (
	StageTaskSet Stage = "taskset"
	StagePoints  Stage = "points"
	StageReduce  Stage = "reduce"
	StageExport  Stage = "export"
)

func (s Stage) String() string {
	return string(s)
}

// AnalysisError wraps a failure with the stage and the violated invariant.
type AnalysisError struct {
	Stage     Stage
	Invariant string
	Err       error
}

func NewAnalysisError(stage Stage, invariant string, err error) *AnalysisError {
	return &AnalysisError{
		Stage:     stage,
		Invariant: invariant,
		Err:       err,
	}
}

func (e *AnalysisError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := e.Stage.String()
	if e.Invariant != "" {
		base += fmt.Sprintf(" (%s)", e.Invariant)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *AnalysisError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StageOf returns the stage of the first AnalysisError in err's chain.
func StageOf(err error) (Stage, bool) {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Stage, true
	}
	return "", false
}
