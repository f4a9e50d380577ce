package utils

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// WorkerPool runs submitted jobs on their own goroutines, bounded by
// maxWorkers (0 means unbounded) and paced by a token-bucket limiter.
type WorkerPool struct {
	semaphore chan struct{}
	limiter   *rate.Limiter
	wg        sync.WaitGroup

	mu   sync.Mutex
	errs []error
}

// NewWorkerPool creates a WorkerPool. perSecond <= 0 disables pacing.
func NewWorkerPool(maxWorkers int, perSecond float64) *WorkerPool {
	wp := &WorkerPool{limiter: rate.NewLimiter(rate.Inf, 0)}
	if maxWorkers > 0 {
		wp.semaphore = make(chan struct{}, maxWorkers)
	}
	if perSecond > 0 {
		wp.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return wp
}

// Submit starts job in the pool. It blocks only while the pool is full.
func (wp *WorkerPool) Submit(ctx context.Context, job func(ctx context.Context) error) {
	wp.wg.Add(1)
	if wp.semaphore != nil {
		wp.semaphore <- struct{}{}
	}

	go func() {
		defer wp.wg.Done()
		if wp.semaphore != nil {
			defer func() { <-wp.semaphore }()
		}

		if err := wp.limiter.Wait(ctx); err != nil {
			wp.record(err)
			return
		}
		if err := job(ctx); err != nil {
			wp.record(err)
		}
	}()
}

// Wait blocks until all submitted jobs have completed and returns the errors
// they reported, in completion order. The error list is reset.
func (wp *WorkerPool) Wait() []error {
	wp.wg.Wait()

	wp.mu.Lock()
	defer wp.mu.Unlock()
	errs := wp.errs
	wp.errs = nil
	return errs
}

func (wp *WorkerPool) record(err error) {
	wp.mu.Lock()
	wp.errs = append(wp.errs, err)
	wp.mu.Unlock()
}

// Set is a thread-safe set of comparable keys.
type Set[T comparable] struct {
	mu   sync.RWMutex
	seen map[T]struct{}
}

// NewSet creates an empty Set.
func NewSet[T comparable]() *Set[T] {
	return &Set[T]{seen: make(map[T]struct{})}
}

// Add returns true if the key was newly added, false if already present.
func (s *Set[T]) Add(key T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[key]; exists {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Contains returns true if the key is in the set.
func (s *Set[T]) Contains(key T) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[key]
	return exists
}

// Size returns the number of unique keys tracked.
func (s *Set[T]) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
