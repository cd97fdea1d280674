package dispatch

// Method is a single invokable operation exposed by a Handler.
// Arguments are passed through from the dispatch call unchanged.
type Method func(args ...any) (any, error)

// Handler must be implemented for a type to qualify as a dispatch target.
// Key returns the registry key the handler is stored under.
// Methods returns the handler's method table; it is snapshotted and
// validated when the handler is registered, not when it is invoked.
// Fail receives any error raised while one of the handler's methods runs.
type Handler interface {
	Key() string
	Methods() map[string]Method
	Fail(err error, invocation string, args []any)
}

// ClosureHandler is a Handler assembled from closures bound at runtime.
type ClosureHandler struct {
	key     string
	methods map[string]Method
	onFail  func(err error, invocation string, args []any)
}

// NewClosureHandler instantiates a ClosureHandler stored under the provided key.
func NewClosureHandler(key string) *ClosureHandler {
	return &ClosureHandler{
		key:     key,
		methods: make(map[string]Method),
	}
}

// Bind exposes the provided closure under the provided method name.
func (hdl *ClosureHandler) Bind(name string, mtd Method) *ClosureHandler {
	hdl.methods[name] = mtd
	return hdl
}

// OnFail may optionally be provided to receive the handler's invocation failures.
func (hdl *ClosureHandler) OnFail(fn func(err error, invocation string, args []any)) *ClosureHandler {
	hdl.onFail = fn
	return hdl
}

func (hdl *ClosureHandler) Key() string {
	return hdl.key
}

func (hdl *ClosureHandler) Methods() map[string]Method {
	return hdl.methods
}

func (hdl *ClosureHandler) Fail(err error, invocation string, args []any) {
	if hdl.onFail != nil {
		hdl.onFail(err, invocation, args)
	}
}

// registration is a handler entry with its method table snapshotted at registration time.
type registration struct {
	hdl     Handler
	methods map[string]Method
}

func newRegistration(hdl Handler) (*registration, error) {
	if hdl == nil || hdl.Key() == "" {
		return nil, InvalidHandlerError
	}
	methods := hdl.Methods()
	if len(methods) == 0 {
		return nil, InvalidHandlerError
	}
	snapshot := make(map[string]Method, len(methods))
	for name, mtd := range methods {
		if name == "" || mtd == nil {
			return nil, InvalidHandlerError
		}
		snapshot[name] = mtd
	}
	return &registration{
		hdl:     hdl,
		methods: snapshot,
	}, nil
}
