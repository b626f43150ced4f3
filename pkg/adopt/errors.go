// SPDX-License-Identifier: Apache-2.0

package adopt

import "fmt"

// ConfigError marks a failure in the run's inputs: missing connection
// string, missing or malformed journal, or a ladder rung that names a tag
// the journal does not declare. Config errors are raised before any
// database mutation and are never retried.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// DatabaseError marks a failure talking to the database: connection,
// catalog probe, tracking-table creation, or the insert transaction. The
// transaction boundary guarantees no partial baseline is left behind.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

func dbError(op string, err error) *DatabaseError {
	return &DatabaseError{Op: op, Err: err}
}
