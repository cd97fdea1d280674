package dispatch

import "time"

// InwardMiddleware must be implemented for a type to qualify as an inward middleware.
// An inward middleware processes the invocation before it reaches the resolved method.
// Returning an error aborts the dispatch and propagates to the caller.
type InwardMiddleware interface {
	HandleInward(invocation string, args []any) error
}

// OutwardMiddleware must be implemented for a type to qualify as an outward middleware.
// An outward middleware observes the outcome after the resolved method returns.
// The elapsed duration covers the method call only.
type OutwardMiddleware interface {
	HandleOutward(invocation string, data any, err error, elapsed time.Duration)
}
