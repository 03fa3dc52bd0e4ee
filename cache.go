package rowan

import (
	"context"
	"errors"
	"io"
	"sync"
)

// instanceCache holds one materialized instance per provider. The container
// uses one for singletons, each ScopeCache uses one for scoped instances.
type instanceCache struct {
	mu    sync.Mutex
	slots map[*Provider]*slot

	// closers holds cached values that implement io.Closer, in the order
	// they were created. close iterates them in reverse.
	closers []io.Closer
	closed  bool
}

// slot serialises construction for a single provider, so concurrent first
// loads invoke the provider exactly once.
type slot struct {
	mu    sync.Mutex
	value any
	ready bool

	// builder is the task running the provider, guarded by waitMu.
	builder *task
}

// task is one top-level resolution. A provider's nested resolutions share
// their caller's task.
type task struct {
	// waiting is the slot the task is blocked on, guarded by waitMu.
	waiting *slot
}

// waitMu guards slot.builder and task.waiting in every cache, so waits that
// cross containers are seen too.
var waitMu sync.Mutex

// errWaitCycle reports that acquiring a slot would wait on the calling task
// itself, through slots held by other tasks.
var errWaitCycle = errors.New("wait cycle")

// acquire locks s for t. It fails with errWaitCycle instead of blocking when
// the task building s is, directly or transitively, waiting on a slot t is
// building.
func (s *slot) acquire(t *task) error {
	if s.mu.TryLock() {
		return nil
	}

	waitMu.Lock()
	for cur := s; cur != nil && cur.builder != nil; cur = cur.builder.waiting {
		if cur.builder == t {
			waitMu.Unlock()
			return errWaitCycle
		}
	}
	t.waiting = s
	waitMu.Unlock()

	s.mu.Lock()

	waitMu.Lock()
	t.waiting = nil
	waitMu.Unlock()
	return nil
}

func (s *slot) setBuilder(t *task) {
	waitMu.Lock()
	s.builder = t
	waitMu.Unlock()
}

func (ic *instanceCache) slotFor(p *Provider) (*slot, error) {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	if ic.closed {
		return nil, ErrAlreadyShutdown
	}
	if ic.slots == nil {
		ic.slots = make(map[*Provider]*slot)
	}
	s, ok := ic.slots[p]
	if !ok {
		s = &slot{}
		ic.slots[p] = s
	}
	return s, nil
}

// load returns the cached value for p, calling build on first use on behalf
// of t. A failed build leaves the slot empty so the next load tries again.
// A value built after the cache was closed is closed straight away and
// ErrAlreadyShutdown is returned.
func (ic *instanceCache) load(p *Provider, t *task, build func() (any, error)) (value any, created bool, err error) {
	s, err := ic.slotFor(p)
	if err != nil {
		return nil, false, err
	}

	if err := s.acquire(t); err != nil {
		return nil, false, err
	}
	defer s.mu.Unlock()

	if s.ready {
		return s.value, false, nil
	}

	s.setBuilder(t)
	value, err = build()
	s.setBuilder(nil)
	if err != nil {
		return nil, false, err
	}

	closer, isCloser := value.(io.Closer)

	ic.mu.Lock()
	closed := ic.closed
	if !closed {
		s.value, s.ready = value, true
		if isCloser {
			ic.closers = append(ic.closers, closer)
		}
	}
	ic.mu.Unlock()

	if closed {
		if isCloser {
			_ = closer.Close()
		}
		return nil, false, ErrAlreadyShutdown
	}
	return value, true, nil
}

// close closes cached io.Closer values newest first and drops every slot.
// If ctx is done the remaining closers are skipped and ctx's error is
// included in the result.
func (ic *instanceCache) close(ctx context.Context) error {
	ic.mu.Lock()
	if ic.closed {
		ic.mu.Unlock()
		return ErrAlreadyShutdown
	}
	ic.closed = true
	closers := ic.closers
	ic.closers = nil
	ic.slots = nil
	ic.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
