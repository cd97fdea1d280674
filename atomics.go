package dispatch

import "sync/atomic"

type flag struct {
	atomic.Uint32
}

func newFlag() *flag {
	return &flag{}
}

func (flg *flag) enabled() bool {
	return flg.Load() == 1
}

func (flg *flag) enable() (swapped bool) {
	return flg.CompareAndSwap(0, 1)
}

func (flg *flag) disable() (swapped bool) {
	return flg.CompareAndSwap(1, 0)
}

type counter struct {
	atomic.Uint32
}

func newCounter() *counter {
	return &counter{}
}

func (c *counter) increment() uint32 {
	return c.Add(1)
}

func (c *counter) decrement() uint32 {
	return c.Add(^uint32(0))
}

func (c *counter) is(v uint32) bool {
	return c.Load() == v
}
