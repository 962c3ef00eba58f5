package physics

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition is matched by every PreconditionError.
	ErrPrecondition = errors.New("physics precondition violated")

	// ErrInvalidBody is wrapped by Body.Validate failures.
	ErrInvalidBody = errors.New("invalid body")
)

// PreconditionError reports a caller bug detected inside the physics core,
// such as an anchor outside a body's tug range. It is raised with panic:
// continuing with the offending input would corrupt body state.
type PreconditionError struct {
	Op     string
	Detail string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrPrecondition, e.Op, e.Detail)
}

// Is lets errors.Is(err, ErrPrecondition) match.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

func preconditionf(op, format string, args ...any) *PreconditionError {
	return &PreconditionError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
