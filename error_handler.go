package dispatch

// ErrorHandler must be implemented for a type to receive the errors the registry encounters.
// It is called for resolution failures and for invocation failures alike.
type ErrorHandler interface {
	Handle(invocation string, args []any, err error)
}
