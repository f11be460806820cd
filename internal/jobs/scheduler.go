// Package jobs runs periodic maintenance tasks on cron schedules.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Func is the body of a scheduled job.
type Func func(ctx context.Context) error

// Entry describes a registered job.
type Entry struct {
	Name     string
	Schedule string
	Next     time.Time
	Prev     time.Time
}

type job struct {
	name     string
	schedule string
	fn       Func
	id       cron.EntryID
}

// Scheduler wraps cron.Cron with named jobs, structured logging and a
// context that is cancelled on Stop.
type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger

	mu      sync.RWMutex
	jobs    map[string]*job
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
}

// NewScheduler creates a stopped scheduler. Overlapping runs of the same job
// are skipped and panics are recovered.
func NewScheduler(logger *slog.Logger) *Scheduler {
	log := logger.With("component", "jobs")
	cl := cronLogger{log: log}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		)),
		log:    log,
		jobs:   make(map[string]*job),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers fn under name on a standard cron schedule or descriptor
// such as "@hourly".
func (s *Scheduler) Add(name, schedule string, fn Func) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.jobs[name]; dup {
		return fmt.Errorf("jobs: %q already registered", name)
	}

	j := &job{name: name, schedule: schedule, fn: fn}
	id, err := s.cron.AddFunc(schedule, func() { _ = s.execute(s.ctx, j) })
	if err != nil {
		return fmt.Errorf("jobs: %q: parse schedule %q: %w", name, schedule, err)
	}
	j.id = id
	s.jobs[name] = j
	return nil
}

// Run executes the named job immediately in the calling goroutine.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	s.mu.RLock()
	j, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("jobs: unknown job %q", name)
	}
	return s.execute(ctx, j)
}

func (s *Scheduler) execute(ctx context.Context, j *job) error {
	start := time.Now()
	s.log.DebugContext(ctx, "job started", slog.String("job", j.name))

	err := j.fn(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "job failed",
			slog.String("job", j.name),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()))
		return err
	}
	s.log.InfoContext(ctx, "job finished",
		slog.String("job", j.name),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Start begins running jobs on their schedules.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
	s.log.Info("scheduler started", slog.Int("jobs", len(s.jobs)))
}

// Stop cancels the job context and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("jobs: stop: %w", ctx.Err())
	}
}

// Entries returns the registered jobs sorted by name.
func (s *Scheduler) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.jobs))
	for _, j := range s.jobs {
		e := s.cron.Entry(j.id)
		out = append(out, Entry{Name: j.name, Schedule: j.schedule, Next: e.Next, Prev: e.Prev})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, slog.String("error", err.Error()))...)
}
