package scheduler_test

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cbo-qa/cbo-smoke/pkg/scheduler"
)

var _ = Describe("Scheduler", func() {
	var s *scheduler.Scheduler[string]

	AfterEach(func() {
		if s != nil {
			s.Close()
		}
	})

	Describe("AddWork", func() {
		It("should add work and return a future", func() {
			s = scheduler.NewScheduler[string](1)

			future := s.AddWork(func(ctx context.Context) (string, error) {
				return "done", nil
			})
			Expect(future).NotTo(BeNil())

			var result scheduler.Result[string]
			Eventually(future.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Data).To(Equal("done"))
			Expect(result.Err).NotTo(HaveOccurred())
		})

		It("should pass errors through", func() {
			s = scheduler.NewScheduler[string](1)

			future := s.AddWork(func(ctx context.Context) (string, error) {
				return "", errors.New("boom")
			})

			var result scheduler.Result[string]
			Eventually(future.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Err).To(MatchError("boom"))
		})

		It("should turn a panic into an error and keep the worker", func() {
			s = scheduler.NewScheduler[string](1)

			future := s.AddWork(func(ctx context.Context) (string, error) {
				panic("bad row")
			})
			var result scheduler.Result[string]
			Eventually(future.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Err).To(MatchError(ContainSubstring("bad row")))

			next := s.AddWork(func(ctx context.Context) (string, error) {
				return "ok", nil
			})
			Eventually(next.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Data).To(Equal("ok"))
		})
	})

	Describe("Run work", func() {
		It("should execute multiple work items", func() {
			s = scheduler.NewScheduler[string](2)

			results := make(chan int, 3)
			for i := range 3 {
				s.AddWork(func(ctx context.Context) (string, error) {
					results <- i
					return "", nil
				})
			}

			Eventually(func() int {
				return len(results)
			}, 2*time.Second, 100*time.Millisecond).Should(Equal(3))
		})

		// Given a single worker
		// When several items are submitted at once
		// Then they run one at a time in submission order
		It("should serialize work with a single worker", func() {
			s = scheduler.NewScheduler[string](1)

			var running, maxRunning atomic.Int32
			order := make(chan int, 5)
			futures := make([]*scheduler.Future[scheduler.Result[string]], 0, 5)
			for i := range 5 {
				futures = append(futures, s.AddWork(func(ctx context.Context) (string, error) {
					n := running.Add(1)
					if n > maxRunning.Load() {
						maxRunning.Store(n)
					}
					time.Sleep(10 * time.Millisecond)
					order <- i
					running.Add(-1)
					return "", nil
				}))
			}
			for _, f := range futures {
				Eventually(f.C(), 2*time.Second).Should(Receive())
			}

			Expect(maxRunning.Load()).To(Equal(int32(1)))
			close(order)
			var got []int
			for i := range order {
				got = append(got, i)
			}
			Expect(got).To(Equal([]int{0, 1, 2, 3, 4}))
		})
	})

	Describe("Cancel work", func() {
		It("should cancel work via future.Stop()", func() {
			s = scheduler.NewScheduler[string](1)

			cancelled := make(chan bool, 1)
			future := s.AddWork(func(ctx context.Context) (string, error) {
				select {
				case <-ctx.Done():
					cancelled <- true
					return "", ctx.Err()
				case <-time.After(5 * time.Second):
					return "completed", nil
				}
			})
			time.Sleep(100 * time.Millisecond)
			future.Stop()

			Eventually(cancelled, 2*time.Second).Should(Receive(BeTrue()))
		})

		It("should cancel work when scheduler is closed", func() {
			s = scheduler.NewScheduler[string](1)

			cancelled := make(chan bool, 1)
			s.AddWork(func(ctx context.Context) (string, error) {
				select {
				case <-ctx.Done():
					cancelled <- true
					return "", ctx.Err()
				case <-time.After(5 * time.Second):
					return "completed", nil
				}
			})
			time.Sleep(100 * time.Millisecond)
			s.Close()
			s = nil // prevent AfterEach from closing again

			Eventually(cancelled, 2*time.Second).Should(Receive(BeTrue()))
		})
	})

	Describe("Goroutine cleanup", func() {
		It("should not leak goroutines after Close under load", func() {
			base := runtime.NumGoroutine()
			s = scheduler.NewScheduler[string](4)

			for i := 0; i < 200; i++ {
				s.AddWork(func(ctx context.Context) (string, error) {
					<-ctx.Done()
					return "", ctx.Err()
				})
			}

			time.Sleep(100 * time.Millisecond)
			s.Close()
			s = nil // prevent AfterEach from closing again

			Eventually(func() int {
				return runtime.NumGoroutine()
			}, 5*time.Second, 100*time.Millisecond).Should(BeNumerically("<=", base+10))
		})
	})

	Describe("Close behavior", func() {
		It("should return canceled when AddWork is called after Close", func() {
			s = scheduler.NewScheduler[string](1)
			s.Close()

			future := s.AddWork(func(ctx context.Context) (string, error) {
				return "done", nil
			})

			var result scheduler.Result[string]
			Eventually(future.C(), 1*time.Second).Should(Receive(&result))
			Expect(result.Err).To(MatchError(context.Canceled))
		})

		It("should fail queued work on Close", func() {
			s = scheduler.NewScheduler[string](1)

			unblock := make(chan struct{})
			s.AddWork(func(ctx context.Context) (string, error) {
				<-unblock
				return "first", nil
			})
			queued := s.AddWork(func(ctx context.Context) (string, error) {
				return "second", nil
			})

			go func() {
				time.Sleep(50 * time.Millisecond)
				close(unblock)
			}()
			s.Close()
			s = nil

			var result scheduler.Result[string]
			Eventually(queued.C(), 1*time.Second).Should(Receive(&result))
			Expect(result.Err).To(MatchError(context.Canceled))
		})

		It("should wait for in-flight work to finish on Close", func() {
			s = scheduler.NewScheduler[string](1)

			started := make(chan struct{})
			unblock := make(chan struct{})
			s.AddWork(func(ctx context.Context) (string, error) {
				close(started)
				<-unblock
				return "done", nil
			})
			Eventually(started, 1*time.Second).Should(BeClosed())

			closeDone := make(chan struct{})
			go func() {
				s.Close()
				close(closeDone)
			}()

			Consistently(closeDone, 200*time.Millisecond).ShouldNot(BeClosed())
			close(unblock)
			Eventually(closeDone, 1*time.Second).Should(BeClosed())
			s = nil // prevent AfterEach from closing again
		})
	})

	Describe("Future.Wait", func() {
		It("should return the delivered result", func() {
			s = scheduler.NewScheduler[string](1)

			result, err := s.AddWork(func(ctx context.Context) (string, error) {
				return "done", nil
			}).Wait(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Data).To(Equal("done"))
		})

		// Given work that blocks until cancelled
		// When the waiting context expires
		// Then Wait returns the context error and the work observes cancellation
		It("should stop the work when the context ends", func() {
			s = scheduler.NewScheduler[string](1)

			cancelled := make(chan struct{})
			future := s.AddWork(func(ctx context.Context) (string, error) {
				<-ctx.Done()
				close(cancelled)
				return "", ctx.Err()
			})

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			_, err := future.Wait(ctx)
			Expect(err).To(MatchError(context.DeadlineExceeded))
			Eventually(cancelled, 1*time.Second).Should(BeClosed())
		})
	})
})
