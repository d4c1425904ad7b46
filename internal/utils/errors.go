package utils

import "fmt"

// Stage names a step of the mining pipeline.
type Stage string

const (
	StageValidate Stage = "validate"
	StageLoad     Stage = "load"
	StageClass    Stage = "class"
	StageSelect   Stage = "select"
	StageMine     Stage = "mine"
)

// StageError records the pipeline stage an error surfaced in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s stage failed", e.Stage)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with its stage; nil stays nil.
func NewStageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
