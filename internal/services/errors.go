package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStartup marks failures to load process-wide inputs such as the reference data.
	ErrStartup = errors.New("startup failure")
	// ErrPrecondition marks work attempted before its inputs were ready.
	ErrPrecondition = errors.New("precondition failed")
	// ErrEmptyResult marks runs that produced nothing to report.
	ErrEmptyResult = errors.New("empty result")
	// ErrInput marks unreadable input files.
	ErrInput = errors.New("input error")
	// ErrLookup marks metadata lookup failures.
	ErrLookup        = errors.New("lookup failure")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrTransient     = errors.New("transient failure")
)

// Outcome tells the CLI how a failed run should be presented.
type Outcome string

const (
	// OutcomeFatal means the session cannot continue until the cause is fixed.
	OutcomeFatal Outcome = "fatal"
	// OutcomeRetry means the user can correct the input and run again.
	OutcomeRetry Outcome = "retry"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps a run error to its presentation outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeRetry
	case errors.Is(err, ErrStartup), errors.Is(err, ErrConfiguration):
		return OutcomeFatal
	default:
		return OutcomeRetry
	}
}

// Recoverable reports whether the user may retry the same action.
func Recoverable(err error) bool {
	return Classify(err) == OutcomeRetry
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
