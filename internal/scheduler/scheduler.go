package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	Timezone              = "UTC"
	TimezoneOffsetSeconds = 0
)

// Sweeper drops stale in-memory state and reports how many entries it removed.
type Sweeper interface {
	Sweep(now time.Time) int
}

type Scheduler struct {
	ctx      context.Context
	cron     *cron.Cron
	spec     string
	sweepers map[string]Sweeper
	now      func() time.Time
	log      *slog.Logger
}

func New(ctx context.Context, spec string, sweepers map[string]Sweeper, log *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLocation(time.FixedZone(Timezone, TimezoneOffsetSeconds)))

	return &Scheduler{
		ctx:      ctx,
		cron:     c,
		spec:     spec,
		sweepers: sweepers,
		now:      time.Now,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.sweep); err != nil {
		return fmt.Errorf("add sweep func (spec = %s): %w", s.spec, err)
	}

	s.cron.Start()

	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sweep() {
	select {
	case <-s.ctx.Done():
		s.log.InfoContext(s.ctx, "Scheduler context is done",
			"error", s.ctx.Err())
		return
	default:
	}

	now := s.now()

	for name, sweeper := range s.sweepers {
		if sweeper == nil {
			continue
		}

		if removed := sweeper.Sweep(now); removed > 0 {
			s.log.InfoContext(s.ctx, "Stale entries are swept",
				"sweeper", name,
				"removed", removed)
		}
	}
}
