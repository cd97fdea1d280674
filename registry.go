package dispatch

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/io-da/schedule"
)

// Registry is the only struct exported and required for the dispatcher usage.
// The Registry should be instantiated using the New function.
type Registry struct {
	mu                sync.RWMutex
	workerPoolSize    int
	queueBuffer       int
	initialized       *flag
	shuttingDown      *flag
	workers           *counter
	handlers          map[string]*registration
	errorHandlers     []ErrorHandler
	inward            []InwardMiddleware
	outward           []OutwardMiddleware
	jobQueue          chan *job
	closed            chan bool
	scheduleProcessor *scheduleProcessor
}

// job is a resolved invocation ready to run, either inline or on a worker.
type job struct {
	ent        *registration
	mtd        Method
	invocation string
	args       []any
	res        *Async
}

// New instantiates the Registry struct.
// The initialization of the Registry is performed separately (Initialize function) for dependency injection purposes.
func New() *Registry {
	reg := &Registry{
		workerPoolSize: runtime.GOMAXPROCS(0),
		queueBuffer:    100,
		initialized:    newFlag(),
		shuttingDown:   newFlag(),
		workers:        newCounter(),
		handlers:       make(map[string]*registration),
		errorHandlers:  make([]ErrorHandler, 0),
		closed:         make(chan bool),
	}
	reg.scheduleProcessor = newScheduleProcessor(reg)
	return reg
}

// WorkerPoolSize may optionally be provided to tweak the worker pool size for async dispatches.
// It can only be adjusted *before* the registry is initialized.
// It defaults to the value returned by runtime.GOMAXPROCS(0).
func (reg *Registry) WorkerPoolSize(workerPoolSize int) {
	if !reg.initialized.enabled() {
		reg.workerPoolSize = workerPoolSize
	}
}

// QueueBuffer may optionally be provided to tweak the buffer size of the async job queue.
// It can only be adjusted *before* the registry is initialized.
// It defaults to 100.
func (reg *Registry) QueueBuffer(queueBuffer int) {
	if !reg.initialized.enabled() {
		reg.queueBuffer = queueBuffer
	}
}

// ErrorHandlers may optionally be provided.
// They will receive every error the registry encounters, resolution and invocation failures alike.
func (reg *Registry) ErrorHandlers(hdls ...ErrorHandler) {
	if !reg.initialized.enabled() {
		reg.errorHandlers = hdls
	}
}

// Use attaches middlewares to the dispatch pipeline.
// Each value may implement InwardMiddleware, OutwardMiddleware or both.
// Middlewares can only be attached *before* the registry is initialized.
func (reg *Registry) Use(mdls ...any) {
	if reg.initialized.enabled() {
		return
	}
	for _, mdl := range mdls {
		if in, ok := mdl.(InwardMiddleware); ok {
			reg.inward = append(reg.inward, in)
		}
		if out, ok := mdl.(OutwardMiddleware); ok {
			reg.outward = append(reg.outward, out)
		}
	}
}

// Register stores the handler under its key, overwriting any previous
// registration for that key. The handler's method table is validated and
// snapshotted here; an invalid handler is reported to the error handlers
// and skipped. Returns the registry to allow chained registration calls.
func (reg *Registry) Register(hdl Handler) *Registry {
	ent, err := newRegistration(hdl)
	if err != nil {
		reg.error("", nil, err)
		return reg
	}
	reg.mu.Lock()
	reg.handlers[hdl.Key()] = ent
	reg.mu.Unlock()
	return reg
}

// Initialize registers the provided handlers and starts the worker pool.
func (reg *Registry) Initialize(hdls ...Handler) {
	for _, hdl := range hdls {
		reg.Register(hdl)
	}
	if reg.initialized.enable() {
		reg.jobQueue = make(chan *job, reg.queueBuffer)
		for i := 0; i < reg.workerPoolSize; i++ {
			reg.workers.increment()
			go reg.worker(reg.jobQueue, reg.closed)
		}
	}
}

// Dispatch resolves the invocation descriptor and runs the method synchronously.
// Resolution errors (InvalidInvocationError, NotInitializedError, ShuttingDownError,
// UnknownHandlerError, UnknownMethodError) and inward middleware errors are
// returned to the caller. An error raised by the method itself is not: it is
// routed to the handler's Fail callback and Dispatch returns no result.
func (reg *Registry) Dispatch(invocation string, args ...any) (any, error) {
	jb, err := reg.resolve(invocation, args)
	if err != nil {
		return nil, err
	}
	if err := reg.inbound(jb); err != nil {
		return nil, err
	}
	data, err := reg.invoke(jb)
	if err != nil {
		return nil, nil
	}
	return data, nil
}

// DispatchAsync resolves the invocation descriptor and runs the method on the
// worker pool. Resolution errors are returned synchronously; the returned
// Async handle exposes the eventual outcome.
func (reg *Registry) DispatchAsync(invocation string, args ...any) (*Async, error) {
	jb, err := reg.resolve(invocation, args)
	if err != nil {
		return nil, err
	}
	jb.res = newAsync(invocation)
	reg.jobQueue <- jb
	return jb.res, nil
}

// Schedule dispatches the invocation whenever the provided schedule triggers.
// The invocation is resolved immediately so resolution errors surface here,
// and again at fire time so it always reaches the current registration.
// The returned key can be used to Unschedule.
func (reg *Registry) Schedule(invocation string, sch *schedule.Schedule, args ...any) (*uuid.UUID, error) {
	if _, err := reg.resolve(invocation, args); err != nil {
		return nil, err
	}
	key := reg.scheduleProcessor.add(newScheduledDispatch(invocation, args, sch))
	return &key, nil
}

// Unschedule removes previously scheduled dispatches.
func (reg *Registry) Unschedule(keys ...uuid.UUID) {
	reg.scheduleProcessor.remove(keys...)
}

// Shutdown the registry gracefully.
// *Async dispatches attempted while shutting down will be refused*.
func (reg *Registry) Shutdown() {
	if reg.shuttingDown.enable() {
		go reg.shutdown()
	}
}

//-----Private Functions------//

func (reg *Registry) resolve(invocation string, args []any) (*job, error) {
	key, method, found := strings.Cut(invocation, ":")
	if !found || key == "" || method == "" {
		return nil, reg.refuse(invocation, args, InvalidInvocationError)
	}
	if !reg.initialized.enabled() {
		return nil, reg.refuse(invocation, args, NotInitializedError)
	}
	if reg.shuttingDown.enabled() {
		return nil, reg.refuse(invocation, args, ShuttingDownError)
	}
	reg.mu.RLock()
	ent, registered := reg.handlers[key]
	reg.mu.RUnlock()
	if !registered {
		return nil, reg.refuse(invocation, args, UnknownHandlerError)
	}
	mtd, exposed := ent.methods[method]
	if !exposed {
		return nil, reg.refuse(invocation, args, UnknownMethodError)
	}
	return &job{
		ent:        ent,
		mtd:        mtd,
		invocation: invocation,
		args:       args,
	}, nil
}

func (reg *Registry) refuse(invocation string, args []any, err error) error {
	reg.error(invocation, args, err)
	return err
}

func (reg *Registry) inbound(jb *job) error {
	for _, mdl := range reg.inward {
		if err := mdl.HandleInward(jb.invocation, jb.args); err != nil {
			reg.error(jb.invocation, jb.args, err)
			return err
		}
	}
	return nil
}

func (reg *Registry) invoke(jb *job) (any, error) {
	started := time.Now()
	data, err := reg.call(jb)
	elapsed := time.Since(started)
	for _, mdl := range reg.outward {
		mdl.HandleOutward(jb.invocation, data, err, elapsed)
	}
	if err != nil {
		reg.error(jb.invocation, jb.args, err)
		jb.ent.hdl.Fail(err, jb.invocation, jb.args)
		return nil, err
	}
	return data, nil
}

func (reg *Registry) call(jb *job) (data any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			data = nil
			err = fmt.Errorf("dispatch: panic in %s: %v", jb.invocation, rec)
		}
	}()
	return jb.mtd(jb.args...)
}

func (reg *Registry) worker(jobs <-chan *job, closed chan<- bool) {
	for jb := range jobs {
		if jb == nil {
			break
		}
		reg.process(jb)
	}
	closed <- true
}

func (reg *Registry) process(jb *job) {
	if err := reg.inbound(jb); err != nil {
		if jb.res != nil {
			jb.res.fail(err)
		}
		return
	}
	data, err := reg.invoke(jb)
	if jb.res == nil {
		return
	}
	if err != nil {
		jb.res.fail(err)
		return
	}
	jb.res.success(data)
}

// fire is used by the schedule processor to enqueue a due dispatch.
// Resolution errors at fire time are already routed to the error handlers.
func (reg *Registry) fire(invocation string, args []any) {
	jb, err := reg.resolve(invocation, args)
	if err != nil {
		return
	}
	reg.jobQueue <- jb
}

func (reg *Registry) shutdown() {
	for !reg.workers.is(0) {
		reg.jobQueue <- nil
		<-reg.closed
		reg.workers.decrement()
	}
	reg.scheduleProcessor.shutdown()
	reg.initialized.disable()
	reg.shuttingDown.disable()
}

func (reg *Registry) error(invocation string, args []any, err error) {
	for _, errHdl := range reg.errorHandlers {
		errHdl.Handle(invocation, args, err)
	}
}
