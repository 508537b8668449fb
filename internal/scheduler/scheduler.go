package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// JobFunc receives the current time in the scheduler location.
type JobFunc func(ctx context.Context, now time.Time)

type job struct {
	name string
	spec string
	fn   JobFunc
}

type Scheduler struct {
	logger *slog.Logger
	s      *gocron.Scheduler
	loc    *time.Location
	jobs   []job
}

func New(logger *slog.Logger, loc *time.Location) *Scheduler {
	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()

	return &Scheduler{logger: logger.With("component", "scheduler"), s: s, loc: loc}
}

// Add registers fn under a cron spec, ex: "30 17 * * 1-5". An empty spec disables the job.
func (sch *Scheduler) Add(name, spec string, fn JobFunc) {
	if spec == "" {
		sch.logger.Info("job disabled", "job", name)
		return
	}
	sch.jobs = append(sch.jobs, job{name: name, spec: spec, fn: fn})
}

// Start runs the jobs until ctx is done.
func (sch *Scheduler) Start(ctx context.Context) error {
	for _, j := range sch.jobs {
		_, err := sch.s.Cron(j.spec).Tag(j.name).Do(func(j job) {
			select {
			case <-ctx.Done():
				return
			default:
			}

			start := time.Now()
			j.fn(ctx, start.In(sch.loc))
			sch.logger.Info("job finished", "job", j.name, "duration", time.Since(start))
		}, j)
		if err != nil {
			return fmt.Errorf("schedule job %s: %w", j.name, err)
		}
	}

	sch.s.StartAsync()
	sch.logger.Info("scheduler started", "jobs", len(sch.jobs))

	<-ctx.Done()
	sch.s.Stop()
	return nil
}
