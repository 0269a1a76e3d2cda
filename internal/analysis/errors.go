package analysis

import (
	"errors"
	"fmt"
)

// ModuleNotFoundError reports a module absent from every report in a
// collection. It is recoverable: FastQC only writes the modules it was
// configured to run, so callers render an empty-state placeholder instead of
// failing the run.
type ModuleNotFoundError struct {
	Module string
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("module %q not present in any report", e.Module)
}

// IsModuleNotFound reports whether err is a ModuleNotFoundError.
func IsModuleNotFound(err error) bool {
	var target *ModuleNotFoundError
	return errors.As(err, &target)
}

// AggregationError reports cross-file shapes too inconsistent to concatenate
// or join. There is no silent coercion: the caller gets this error and no
// partial result.
type AggregationError struct {
	Module string
	Msg    string
}

func (e *AggregationError) Error() string {
	if e.Module != "" {
		return fmt.Sprintf("aggregate %q: %s", e.Module, e.Msg)
	}
	return e.Msg
}
