package domain

import "errors"

var (
	// ErrUnauthorized is returned when no authenticated user id is present.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned for lookups of missing entities.
	ErrNotFound = errors.New("not found")
	// ErrNoActiveSession is returned when a quiz submit arrives without a
	// preceding start for that user.
	ErrNoActiveSession = errors.New("no active quiz session")
	// ErrNotAContainer is returned when extract is called on a non-archive node.
	ErrNotAContainer = errors.New("node is not a container")
	// ErrEmailTaken indicates a signup collided with an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials indicates a failed login. Deliberately vague.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidInput indicates a request missing required fields.
	ErrInvalidInput = errors.New("invalid input")
)
