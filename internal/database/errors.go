package database

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds returned by Manager. The underlying driver error stays in the
// chain, so both errors.Is(err, ErrQuery) and driver-specific checks work.
var (
	ErrDriverUnavailable = errors.New("database driver unavailable")
	ErrConnection        = errors.New("database connection error")
	ErrQuery             = errors.New("database query error")
	ErrExecute           = errors.New("database execute error")
	ErrNotConnected      = errors.New("database not connected")
)

func wrap(kind, err error) error {
	return fmt.Errorf("%w: %w", kind, err)
}

// ExecPolicy decides what Execute does with a failed statement.
type ExecPolicy int

const (
	// ExecPropagate returns statement failures to the caller.
	ExecPropagate ExecPolicy = iota
	// ExecLogOnly logs statement failures and reports success.
	ExecLogOnly
)

func (p ExecPolicy) String() string {
	if p == ExecLogOnly {
		return "log"
	}
	return "propagate"
}

// ParseExecPolicy maps "propagate" or "log" to an ExecPolicy. Empty input
// selects ExecPropagate.
func ParseExecPolicy(s string) (ExecPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "propagate":
		return ExecPropagate, nil
	case "log", "log-only", "log_only":
		return ExecLogOnly, nil
	}
	return ExecPropagate, fmt.Errorf("unknown exec policy %q", s)
}
