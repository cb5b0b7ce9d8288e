package application

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Feed fans values out to subscribers in subscription order. A panicking
// subscriber is logged and skipped.
type Feed[T any] struct {
	logger zerolog.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]func(T)
}

func NewFeed[T any](logger zerolog.Logger) *Feed[T] {
	return &Feed[T]{logger: logger, subs: map[int]func(T){}}
}

func (f *Feed[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	f.subs[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

func (f *Feed[T]) Publish(value T) {
	f.mu.Lock()
	ids := make([]int, 0, len(f.subs))
	for id := range f.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, f.subs[id])
	}
	f.mu.Unlock()

	for _, fn := range fns {
		f.deliver(fn, value)
	}
}

func (f *Feed[T]) deliver(fn func(T), value T) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error().Interface("panic", r).Msg("feed subscriber panicked")
		}
	}()
	fn(value)
}
