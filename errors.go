package dispatch

// DispatchError is used to create errors originating from the registry.
type DispatchError string

// Error returns the string message of the error.
func (e DispatchError) Error() string {
	return string(e)
}

const (
	// InvalidInvocationError will be returned when the invocation descriptor is not of the form "key:method".
	InvalidInvocationError = DispatchError("dispatch: the invocation must be of the form key:method")
	// UnknownHandlerError will be returned when no handler is registered under the key provided.
	UnknownHandlerError = DispatchError("dispatch: no handler registered under the key provided")
	// UnknownMethodError will be returned when the resolved handler does not expose the method provided.
	UnknownMethodError = DispatchError("dispatch: the handler does not expose the method provided")
	// InvalidHandlerError will be reported when registering a handler without a key or a usable method table.
	InvalidHandlerError = DispatchError("dispatch: handlers require a key and a non-empty method table")
	// NotInitializedError will be returned when attempting to dispatch before the registry is initialized.
	NotInitializedError = DispatchError("dispatch: the registry is not initialized")
	// ShuttingDownError will be returned when attempting to dispatch while the registry is shutting down.
	ShuttingDownError = DispatchError("dispatch: the registry is shutting down")
	// EmptyAwaitListError will be returned when attempting to await an empty AsyncList.
	EmptyAwaitListError = DispatchError("dispatch: await list is empty")
)
