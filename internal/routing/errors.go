package routing

import (
	"errors"
	"fmt"
)

var (
	// ErrSlotUnset reports a selector naming a slot the teardown never filled.
	ErrSlotUnset = errors.New("slot unset")
	// ErrRouteInstallFailed reports a required route that could not be wired.
	ErrRouteInstallFailed = errors.New("route install failed")
	// ErrUnknownTemplate reports a template name with no built-in table.
	ErrUnknownTemplate = errors.New("unknown route template")
)

// RouteError names the required route that aborted installation.
type RouteError struct {
	Route string
	Err   error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("route %q: %v", e.Route, e.Err)
}

// Unwrap exposes both the install failure and its cause.
func (e *RouteError) Unwrap() []error {
	return []error{ErrRouteInstallFailed, e.Err}
}
