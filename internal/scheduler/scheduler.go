// Package scheduler reruns the harvest on a cron spec.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps robfig/cron. A tick that fires while the previous run is
// still going is skipped.
type Scheduler struct {
	cron *cron.Cron
	spec string
	job  cron.Job
	wg   sync.WaitGroup
}

// New creates a Scheduler that calls run on every tick of spec, e.g. "@every 24h".
func New(ctx context.Context, spec string, run func(ctx context.Context)) *Scheduler {
	logger := cron.DefaultLogger
	return &Scheduler{
		cron: cron.New(cron.WithLogger(logger)),
		spec: spec,
		job: cron.NewChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)).Then(cron.FuncJob(func() {
			run(ctx)
		})),
	}
}

// Start registers the job, starts the scheduler and fires one run right away
// so the first harvest does not wait for a tick.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddJob(s.spec, s.job); err != nil {
		return fmt.Errorf("cron.AddJob: %w", err)
	}

	s.cron.Start()
	log.Printf("⏰ Scheduler started, spec: %s", s.spec)

	s.Trigger()
	return nil
}

// Trigger runs the job now without blocking. It is a no-op while a run is active.
func (s *Scheduler) Trigger() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.job.Run()
	}()
}

// Stop halts the scheduler and waits for any running job to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	log.Println("⏰ Scheduler stopped")
}
