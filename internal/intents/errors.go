package intents

import "errors"

var (
	// ErrNoHandlerFound means the intent had zero candidate apps.
	ErrNoHandlerFound = errors.New("no handler found for intent")

	// ErrUserCancelled means the user dismissed the multi-candidate
	// picker. Surfaced distinctly so callers can suppress error UI.
	ErrUserCancelled = errors.New("intent resolution cancelled by user")

	// ErrAppOpenFailed means the activation collaborator failed; the
	// underlying cause is wrapped alongside it.
	ErrAppOpenFailed = errors.New("app activation failed")
)
