package seed

import (
	"errors"
	"fmt"
)

// ErrMalformedSeed is returned when a seed definition fails validation.
// Nothing is written in that case.
var ErrMalformedSeed = errors.New("malformed seed data")

type ErrorKind string

const (
	KindRead          ErrorKind = "read"
	KindWrite         ErrorKind = "write"
	KindMalformedSeed ErrorKind = "malformed_seed"
)

// BootstrapError reports why EnsureSeeded stopped. Writes that completed
// before the failing step are not undone unless the store is transactional.
type BootstrapError struct {
	Kind ErrorKind
	Step string
	Err  error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("bootstrap %s (%s): %v", e.Step, e.Kind, e.Err)
}

func (e *BootstrapError) Unwrap() error { return e.Err }
