package usecase

import "errors"

var (
	// ErrInvalidInput wraps caller mistakes: bad date ranges, unknown H2H
	// modes, prediction rows of the wrong width.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned for team names the normalizer cannot resolve
	// and matchdays with no fixtures.
	ErrNotFound = errors.New("resource not found")
	// ErrDependencyUnavailable means a configured component is missing, such
	// as ingest without a Postgres store.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

func isInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
