package domain

import "errors"

// ErrMalformedInput is returned when a grid description cannot be parsed.
var ErrMalformedInput = errors.New("malformed input")

// ErrInvalidGrid is returned when grid dimensions or obstacles are out of range.
var ErrInvalidGrid = errors.New("invalid grid")

// ErrInvalidAgent is returned when the agent's starting state cannot be simulated.
var ErrInvalidAgent = errors.New("invalid agent")

// ErrReportNotFound is returned when a report ID cannot be found in the store.
var ErrReportNotFound = errors.New("report not found")
