package dispatch

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

//------Failures------//

type failure struct {
	err        error
	invocation string
	args       []any
}

//------Handlers------//

type userHandler struct {
	sync.Mutex
	registered [][2]string
	calls      int
	failures   []failure
}

func (hdl *userHandler) Key() string {
	return "user"
}

func (hdl *userHandler) Methods() map[string]Method {
	return map[string]Method{
		"register": func(args ...any) (any, error) {
			hdl.Lock()
			hdl.calls++
			hdl.Unlock()
			if len(args) != 2 {
				return nil, fmt.Errorf("register expects name and email, got %d arguments", len(args))
			}
			name, email := args[0].(string), args[1].(string)
			hdl.Lock()
			hdl.registered = append(hdl.registered, [2]string{name, email})
			hdl.Unlock()
			return fmt.Sprintf("registered %s <%s>", name, email), nil
		},
	}
}

func (hdl *userHandler) Fail(err error, invocation string, args []any) {
	hdl.Lock()
	hdl.failures = append(hdl.failures, failure{err: err, invocation: invocation, args: args})
	hdl.Unlock()
}

type mailerHandler struct {
	sync.Mutex
	wg       *sync.WaitGroup
	sent     []string
	failures []failure
}

func (hdl *mailerHandler) Key() string {
	return "mailer"
}

func (hdl *mailerHandler) Methods() map[string]Method {
	return map[string]Method{
		"send": func(args ...any) (any, error) {
			hdl.Lock()
			hdl.sent = append(hdl.sent, fmt.Sprint(args...))
			hdl.Unlock()
			if hdl.wg != nil {
				hdl.wg.Done()
			}
			return len(args), nil
		},
		"broken": func(args ...any) (any, error) {
			return nil, errors.New("smtp unreachable")
		},
		"explode": func(args ...any) (any, error) {
			panic("mailer exploded")
		},
	}
}

func (hdl *mailerHandler) Fail(err error, invocation string, args []any) {
	hdl.Lock()
	hdl.failures = append(hdl.failures, failure{err: err, invocation: invocation, args: args})
	hdl.Unlock()
}

type stubHandler struct {
	key string
	tag string
}

func (hdl *stubHandler) Key() string {
	return hdl.key
}

func (hdl *stubHandler) Methods() map[string]Method {
	return map[string]Method{
		"tag": func(args ...any) (any, error) {
			return hdl.tag, nil
		},
	}
}

func (hdl *stubHandler) Fail(err error, invocation string, args []any) {}

type keylessHandler struct{}

func (hdl *keylessHandler) Key() string {
	return ""
}

func (hdl *keylessHandler) Methods() map[string]Method {
	return map[string]Method{
		"noop": func(args ...any) (any, error) {
			return nil, nil
		},
	}
}

func (hdl *keylessHandler) Fail(err error, invocation string, args []any) {}

type benchHandler struct{}

func (hdl *benchHandler) Key() string {
	return "bench"
}

func (hdl *benchHandler) Methods() map[string]Method {
	return map[string]Method{
		"run": func(args ...any) (any, error) {
			return fibonacci(1000), nil
		},
	}
}

func (hdl *benchHandler) Fail(err error, invocation string, args []any) {}

//------Error Handlers------//

type storeErrorsHandler struct {
	sync.Mutex
	errs map[string][]error
}

func newStoreErrorsHandler() *storeErrorsHandler {
	return &storeErrorsHandler{
		errs: make(map[string][]error),
	}
}

func (hdl *storeErrorsHandler) Handle(invocation string, args []any, err error) {
	hdl.Lock()
	hdl.errs[invocation] = append(hdl.errs[invocation], err)
	hdl.Unlock()
}

func (hdl *storeErrorsHandler) Errors(invocation string) []error {
	hdl.Lock()
	defer hdl.Unlock()
	return hdl.errs[invocation]
}

//------Middlewares------//

type recordingMiddleware struct {
	sync.Mutex
	inward  []string
	outward []string
	abort   error
}

func (mdl *recordingMiddleware) HandleInward(invocation string, args []any) error {
	mdl.Lock()
	mdl.inward = append(mdl.inward, invocation)
	mdl.Unlock()
	return mdl.abort
}

func (mdl *recordingMiddleware) HandleOutward(invocation string, data any, err error, elapsed time.Duration) {
	mdl.Lock()
	mdl.outward = append(mdl.outward, invocation)
	mdl.Unlock()
}

//------General------//

func fibonacci(n uint) *big.Int {
	if n < 2 {
		return big.NewInt(int64(n))
	}
	a, b := big.NewInt(0), big.NewInt(1)
	for n--; n > 0; n-- {
		a.Add(a, b)
		a, b = b, a
	}

	return b
}
