package dispatch

import "errors"

// AsyncResult pairs an awaited outcome with the index of its handle.
type AsyncResult struct {
	Index int
	Data  any
	Err   error
}

func (res AsyncResult) Get() (any, error) {
	return res.Data, res.Err
}

// AsyncList fans in the outcomes of multiple async dispatches.
type AsyncList struct {
	handles []*Async
}

func NewAsyncList(handles ...*Async) *AsyncList {
	return &AsyncList{
		handles: handles,
	}
}

// Push appends the provided async handles to the list.
func (asl *AsyncList) Push(handles ...*Async) {
	asl.handles = append(asl.handles, handles...)
}

// Await waits for every handle to be processed and returns their data and
// joined errors, both indexed by dispatch order.
func (asl *AsyncList) Await() ([]any, error) {
	iterator, err := asl.AwaitIterator()
	if err != nil {
		return nil, err
	}

	data := make([]any, len(asl.handles))
	errs := make([]error, len(asl.handles))
	for res := range iterator {
		data[res.Index], errs[res.Index] = res.Get()
	}

	return data, errors.Join(errs...)
}

// AwaitIterator generates an iterator over the await results in order of arrival.
func (asl *AsyncList) AwaitIterator() (<-chan AsyncResult, error) {
	if len(asl.handles) == 0 {
		return nil, EmptyAwaitListError
	}
	results := make(chan AsyncResult, len(asl.handles))
	processed := newCounter()
	total := uint32(len(asl.handles))
	for i := 0; i < len(asl.handles); i++ {
		asl.handles[i].setListener(asl.generateListener(i, results, processed, total))
	}
	return results, nil
}

func (asl *AsyncList) generateListener(i int, results chan<- AsyncResult, processed *counter, total uint32) func(res *Async) {
	return func(res *Async) {
		results <- AsyncResult{
			Index: i,
			Data:  res.data,
			Err:   res.err,
		}
		if processed.increment() == total {
			close(results)
		}
	}
}
