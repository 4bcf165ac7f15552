package starlarkrule

import (
	"sync"

	"go.starlark.net/starlark"
)

// threadPool reuses Starlark threads across rule calls. Files are rewritten
// concurrently and a thread must not be shared between goroutines.
type threadPool struct {
	mu      sync.Mutex
	threads []*starlark.Thread
	maxSize int
}

func newThreadPool(maxSize int) *threadPool {
	return &threadPool{threads: make([]*starlark.Thread, 0, maxSize), maxSize: maxSize}
}

// Get retrieves a thread from the pool or creates a new one. The name is
// used in script backtraces.
func (p *threadPool) Get(name string) *starlark.Thread {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.threads) > 0 {
		thread := p.threads[len(p.threads)-1]
		p.threads = p.threads[:len(p.threads)-1]
		thread.Name = name
		return thread
	}
	return &starlark.Thread{
		Name:  name,
		Print: func(_ *starlark.Thread, _ string) {},
	}
}

// Put returns a thread to the pool. If the pool is full, the thread is
// discarded.
func (p *threadPool) Put(thread *starlark.Thread) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.threads) < p.maxSize {
		thread.Name = ""
		p.threads = append(p.threads, thread)
	}
}
