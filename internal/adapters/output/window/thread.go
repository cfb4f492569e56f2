package window

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

var ErrClosed = errors.New("window thread closed")

// Thread owns one OS thread and runs submitted functions on it one at a time, the
// way a native UI dispatcher does. Functions must not call Invoke themselves.
type Thread struct {
	jobs chan job
	done chan struct{}
	once sync.Once
}

type job struct {
	fn     func()
	result chan error
}

func NewThread() *Thread {
	t := &Thread{jobs: make(chan job), done: make(chan struct{})}
	ready := make(chan struct{})
	go t.loop(ready)
	<-ready
	return t
}

func (t *Thread) loop(ready chan<- struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	close(ready)
	for {
		select {
		case j := <-t.jobs:
			j.result <- run(j.fn)
		case <-t.done:
			return
		}
	}
}

func run(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("window thread: panic: %v", r)
		}
	}()
	fn()
	return nil
}

// Invoke runs fn on the thread and blocks until it returns. There is no timeout.
func (t *Thread) Invoke(fn func()) error {
	select {
	case <-t.done:
		return ErrClosed
	default:
	}
	j := job{fn: fn, result: make(chan error, 1)}
	select {
	case t.jobs <- j:
	case <-t.done:
		return ErrClosed
	}
	return <-j.result
}

// Close stops the thread after the running function, if any, returns.
func (t *Thread) Close() {
	t.once.Do(func() { close(t.done) })
}
