package dispatch

import "sync"

// Async is the handle returned from async dispatches.
type Async struct {
	mu         sync.Mutex
	invocation string
	data       any
	err        error
	done       *flag
	pending    chan bool
	listener   func(res *Async)
}

func newAsync(invocation string) *Async {
	return &Async{
		invocation: invocation,
		done:       newFlag(),
		pending:    make(chan bool, 1),
	}
}

//------Fetch Data------//

// Invocation returns the descriptor this handle was dispatched with.
func (res *Async) Invocation() string {
	return res.invocation
}

// Await blocks until the invocation has been processed.
func (res *Async) Await() error {
	if !res.done.enabled() {
		<-res.pending
	}
	return res.err
}

// Get awaits and retrieves the data from the return of the invocation.
func (res *Async) Get() (any, error) {
	if err := res.Await(); err != nil {
		return nil, err
	}
	return res.data, nil
}

//------Internal------//

// setListener attaches a completion callback. A handle that already
// completed invokes the callback immediately.
func (res *Async) setListener(fn func(res *Async)) {
	res.mu.Lock()
	if res.done.enabled() {
		res.mu.Unlock()
		fn(res)
		return
	}
	res.listener = fn
	res.mu.Unlock()
}

func (res *Async) notifyDone() {
	res.mu.Lock()
	res.done.enable()
	fn := res.listener
	res.mu.Unlock()
	res.pending <- true
	if fn != nil {
		fn(res)
	}
}

func (res *Async) fail(err error) {
	res.err = err
	res.notifyDone()
}

func (res *Async) success(data any) {
	res.data = data
	res.notifyDone()
}
