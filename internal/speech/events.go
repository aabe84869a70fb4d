package speech

import (
	"sync"

	"github.com/hammamikhairi/smartagri/internal/domain"
)

// emitter implements the Subscribe half of domain.RecognitionEngine.
// Handlers run on the emitting goroutine, outside the emitter's lock.
type emitter struct {
	mu     sync.Mutex
	nextID int
	subs   map[domain.EventKind]map[int]func(domain.RecognitionEvent)
}

// Subscribe registers fn for events of kind.
func (e *emitter) Subscribe(kind domain.EventKind, fn func(domain.RecognitionEvent)) func() {
	e.mu.Lock()
	if e.subs == nil {
		e.subs = make(map[domain.EventKind]map[int]func(domain.RecognitionEvent))
	}
	if e.subs[kind] == nil {
		e.subs[kind] = make(map[int]func(domain.RecognitionEvent))
	}
	id := e.nextID
	e.nextID++
	e.subs[kind][id] = fn
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs[kind], id)
			e.mu.Unlock()
		})
	}
}

func (e *emitter) emit(ev domain.RecognitionEvent) {
	e.mu.Lock()
	fns := make([]func(domain.RecognitionEvent), 0, len(e.subs[ev.Kind]))
	for _, fn := range e.subs[ev.Kind] {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
