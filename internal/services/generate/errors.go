package generate

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/ptrgen/internal/domain"
)

// Stage names the pipeline step a StageError came from.
type Stage string

const (
	StageConfig    Stage = "config"
	StagePrefixes  Stage = "list prefixes"
	StageAddresses Stage = "list addresses"
	StageRender    Stage = "render"
	StageWrite     Stage = "write"
	StageHook      Stage = "reload"
)

// Process exit statuses, one per failure class.
const (
	ExitPrefixesFailed     = 1
	ExitPrefixesMalformed  = 2
	ExitAddressesFailed    = 3
	ExitAddressesMalformed = 4
	ExitRender             = 5
	ExitWrite              = 6
	ExitUsage              = 64
	ExitHook               = 100
)

// StageError is a fatal pipeline failure. It aborts the run; nothing after
// the failing stage happens.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ExitCode maps the failure to a process exit status. Retrieval stages
// separate unreachable inventories from unparsable responses.
func (e *StageError) ExitCode() int {
	malformed := errors.Is(e.Err, domain.ErrMalformedResponse)
	switch e.Stage {
	case StagePrefixes:
		if malformed {
			return ExitPrefixesMalformed
		}
		return ExitPrefixesFailed
	case StageAddresses:
		if malformed {
			return ExitAddressesMalformed
		}
		return ExitAddressesFailed
	case StageRender:
		return ExitRender
	case StageWrite:
		return ExitWrite
	case StageHook:
		return ExitHook
	case StageConfig:
		return ExitUsage
	}
	return 1
}

// ExitCode returns the exit status for err: the StageError code when err
// wraps one, 1 otherwise and 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.ExitCode()
	}
	return 1
}
