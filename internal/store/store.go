// Package store holds the machinery shared by the state containers: a
// reducer-driven state holder, effect scheduling policies, per-resource
// request sequencing and memoized selectors.
package store

import "sync"

// Reducer is a pure state transition.
type Reducer[S any] func(state S, action any) S

// Store owns one container's state. Actions are applied one at a time, so
// every reducer run is atomic with respect to other dispatches.
type Store[S any] struct {
	mu     sync.RWMutex
	state  S
	reduce Reducer[S]
}

func New[S any](initial S, reduce Reducer[S]) *Store[S] {
	return &Store[S]{
		state:  initial,
		reduce: reduce,
	}
}

// Dispatch applies action and returns the resulting state.
func (s *Store[S]) Dispatch(action any) S {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.reduce(s.state, action)
	return s.state
}

func (s *Store[S]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}
