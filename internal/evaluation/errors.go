package evaluation

import "fmt"

// Stage names the pipeline step an error originated from
type Stage string

// Pipeline stages in execution order
const (
	StageValidate  Stage = "validate"
	StageExtract   Stage = "extract"
	StageScore     Stage = "score"
	StageAggregate Stage = "aggregate"
	StageSuggest   Stage = "suggest"
	StageAssemble  Stage = "assemble"
)

// StageError wraps a pipeline failure with the stage it came from.
// errors.As reaches the wrapped error, e.g. an extraction.UnsupportedFormatError.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
