// Package scheduler implements a generic worker pool for executing async
// work with futures.
//
// The scheduler manages a fixed pool of workers. Work is submitted via
// AddWork, which returns a Future carrying exactly one Result. The fixture
// API runs seeding through a scheduler with a single worker, so concurrent
// HTTP requests are staged one at a time.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────┐
//	│                      Scheduler[T]                       │
//	│                                                         │
//	│   ┌────────────┐    ┌────────────┐    ┌────────────┐    │
//	│   │  Worker 1  │    │  Worker 2  │    │  Worker N  │    │
//	│   └─────▲──────┘    └─────▲──────┘    └─────▲──────┘    │
//	│         └─────────────────┼─────────────────┘           │
//	│                    ┌──────┴──────┐                      │
//	│                    │  dispatch() │                      │
//	│                    └──────┬──────┘                      │
//	│   ┌───────────────────────┴─────────────────────────┐   │
//	│   │  pending: [work1] [work2] [work3] ...           │   │
//	│   └───────────────────────▲─────────────────────────┘   │
//	│                      AddWork(fn)                        │
//	└─────────────────────────────────────────────────────────┘
//
// # Lifecycle
//
//   - AddWork after Close returns a future holding context.Canceled.
//   - Close cancels the context of every submitted work item, fails
//     queued items with context.Canceled and waits for running items.
//   - A panicking work item yields a Result with an error; the worker is
//     returned to the pool.
//   - Future.Wait returns the result or, when the caller's context ends
//     first, stops the work and returns the context error.
//
// # Usage
//
//	s := scheduler.NewScheduler[*models.ResolvedRecord](1)
//	defer s.Close()
//
//	future := s.AddWork(func(ctx context.Context) (*models.ResolvedRecord, error) {
//	    return seeder.InsertStagingData(ctx, data)
//	})
//	result, err := future.Wait(ctx)
package scheduler
