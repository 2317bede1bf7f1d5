package scheduler

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type queue[T any] []T

func (q *queue[T]) Len() int { return len(*q) }

func (q *queue[T]) Pop() T {
	old := *q
	x := old[0]
	*q = old[1:]
	return x
}

func (q *queue[T]) Push(t T) {
	*q = append(*q, t)
}

type request[T any] struct {
	fn  Work[T]
	c   chan Result[T]
	ctx context.Context
}

type worker[T any] struct {
	id   int
	free chan worker[T]
	wg   *sync.WaitGroup
}

func (w worker[T]) run(r request[T]) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.S().Named("scheduler").Errorw("work panicked", "worker", w.id, "panic", rec)
			r.c <- Result[T]{Err: fmt.Errorf("worker panicked: %v", rec)}
		}
		w.free <- w
		w.wg.Done()
	}()

	if err := r.ctx.Err(); err != nil {
		r.c <- Result[T]{Err: err}
		return
	}

	v, err := r.fn(r.ctx)
	r.c <- Result[T]{Data: v, Err: err}
}

// Scheduler runs submitted work on a fixed pool of workers, in submission
// order. With a single worker, work items never overlap.
type Scheduler[T any] struct {
	workers    *queue[worker[T]]
	pending    *queue[request[T]]
	free       chan worker[T]
	work       chan request[T]
	closeCh    chan struct{}
	stopped    chan struct{}
	mainCtx    context.Context
	mainCancel context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewScheduler[T any](nbWorkers int) *Scheduler[T] {
	if nbWorkers < 1 {
		nbWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler[T]{
		workers:    &queue[worker[T]]{},
		pending:    &queue[request[T]]{},
		free:       make(chan worker[T], nbWorkers),
		work:       make(chan request[T]),
		closeCh:    make(chan struct{}),
		stopped:    make(chan struct{}),
		mainCtx:    ctx,
		mainCancel: cancel,
	}
	for i := range nbWorkers {
		s.workers.Push(worker[T]{id: i, free: s.free, wg: &s.wg})
	}
	go s.loop()
	return s
}

// AddWork queues w. The returned future receives exactly one result; Stop
// cancels the context handed to w.
func (s *Scheduler[T]) AddWork(w Work[T]) *Future[Result[T]] {
	c := make(chan Result[T], 1)
	ctx, cancel := context.WithCancel(s.mainCtx)

	select {
	case <-s.mainCtx.Done():
		c <- Result[T]{Err: context.Canceled}
	case s.work <- request[T]{fn: w, c: c, ctx: ctx}:
	}

	return newFuture(c, cancel)
}

// Close cancels all work, fails queued requests and waits for running work
// to return.
func (s *Scheduler[T]) Close() {
	s.once.Do(func() {
		s.mainCancel()
		close(s.closeCh)
		<-s.stopped
	})
}

func (s *Scheduler[T]) loop() {
	defer close(s.stopped)
	for {
		select {
		case r := <-s.work:
			s.pending.Push(r)
			s.dispatch()
		case w := <-s.free:
			s.workers.Push(w)
			s.dispatch()
		case <-s.closeCh:
			for s.pending.Len() > 0 {
				s.pending.Pop().c <- Result[T]{Err: context.Canceled}
			}
			s.drain()
			return
		}
	}
}

// drain waits for running work while still accepting finished workers so
// none of them blocks on the free channel.
func (s *Scheduler[T]) drain() {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	for {
		select {
		case <-s.free:
		case <-done:
			return
		}
	}
}

// dispatch drains the pending queue as much as possible
// based on available workers
func (s *Scheduler[T]) dispatch() {
	for s.workers.Len() > 0 && s.pending.Len() > 0 {
		r := s.pending.Pop()
		w := s.workers.Pop()
		s.wg.Add(1)
		go w.run(r)
	}
}
