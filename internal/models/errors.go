package models

import "github.com/cockroachdb/errors"

// Sentinel errors for the mining pipeline. Components mark their errors with
// one of these so callers can classify failures with errors.Is.
var (
	// ErrParse indicates a malformed dataset.
	ErrParse = errors.New("dataset parse error")

	// ErrEmptyDataset indicates a dataset without instances.
	ErrEmptyDataset = errors.New("dataset has no instances")

	// ErrInvalidClassIndex indicates a class attribute index out of range.
	ErrInvalidClassIndex = errors.New("invalid class attribute index")

	// ErrMining indicates no itemset met the support floor.
	ErrMining = errors.New("association mining failed")

	// ErrInvalidParameter indicates a threshold or rule count outside its domain.
	ErrInvalidParameter = errors.New("invalid mining parameter")
)

// ErrorClass names the sentinel an error is marked with, for logs and metrics.
func ErrorClass(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrEmptyDataset):
		return "empty_dataset"
	case errors.Is(err, ErrInvalidClassIndex):
		return "invalid_class_index"
	case errors.Is(err, ErrMining):
		return "mining"
	case errors.Is(err, ErrInvalidParameter):
		return "invalid_parameter"
	default:
		return "internal"
	}
}
