// Package stream provides replay-latest publish/subscribe containers for state slices.
package stream

import (
	"context"
	"sync"
)

// Stream holds a current value and notifies subscribers on every write.
//
// Subscribers are called synchronously by the writer, in write order. A subscriber
// must not write to the stream it is subscribed to.
type Stream[T any] struct {
	emitMu sync.Mutex // serializes writes with their notifications

	mu    sync.RWMutex
	value T
	subs  map[uint64]func(T)
	next  uint64
}

// New creates a Stream holding initial.
func New[T any](initial T) *Stream[T] {
	return &Stream[T]{
		value: initial,
		subs:  make(map[uint64]func(T)),
	}
}

// Value returns the current value.
func (s *Stream[T]) Value() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the current value and notifies every subscriber.
func (s *Stream[T]) Set(v T) {
	s.Update(func(T) T { return v })
}

// Update applies fn to the current value atomically, notifies subscribers
// and returns the new value.
func (s *Stream[T]) Update(fn func(T) T) T {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	s.value = fn(s.value)
	v := s.value
	subs := make([]func(T), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(v)
	}
	return v
}

// Subscribe calls fn with the current value immediately and then after every write.
// The returned function cancels the subscription.
func (s *Stream[T]) Subscribe(fn func(T)) (cancel func()) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	v := s.value
	s.mu.Unlock()

	fn(v)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Watch delivers the current value and every later write on the returned channel
// until ctx is done. Delivery never blocks writers: values queue up until read.
func (s *Stream[T]) Watch(ctx context.Context) <-chan T {
	out := make(chan T)

	var (
		mu     sync.Mutex
		queue  []T
		signal = make(chan struct{}, 1)
	)

	cancel := s.Subscribe(func(v T) {
		mu.Lock()
		queue = append(queue, v)
		mu.Unlock()

		select {
		case signal <- struct{}{}:
		default:
		}
	})

	go func() {
		defer close(out)
		defer cancel()

		for {
			mu.Lock()
			pending := queue
			queue = nil
			mu.Unlock()

			for _, v := range pending {
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-signal:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
