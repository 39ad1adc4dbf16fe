package errorsx

// StatusCodeCarrier is implemented by errors which can express an HTTP status
// code.
type StatusCodeCarrier interface {
	error

	// StatusCode returns the HTTP status code this error maps to.
	StatusCode() int
}

// ReasonCarrier is implemented by errors which carry a human readable reason.
type ReasonCarrier interface {
	error

	// Reason returns the human readable reason.
	Reason() string
}

// DebugCarrier is implemented by errors which carry additional debug
// information which is not safe to expose to callers.
type DebugCarrier interface {
	error

	// Debug returns the debug information.
	Debug() string
}

// StatusCarrier is implemented by errors which carry a status text.
type StatusCarrier interface {
	error

	// Status returns the status text.
	Status() string
}
