package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/damon-houk/emission-decay/internal/application/service"
	"github.com/damon-houk/emission-decay/internal/config"
	"github.com/damon-houk/emission-decay/internal/domain/clock"
	"github.com/damon-houk/emission-decay/internal/domain/entity"
	"github.com/damon-houk/emission-decay/internal/infrastructure/logger"
	"github.com/robfig/cron/v3"
)

// SourcePrefix marks calculations created by a schedule
const SourcePrefix = "schedule:"

// Scheduler records snapshots of decaying amounts on cron schedules.
type Scheduler struct {
	cron      *cron.Cron
	service   *service.DecayService
	clock     clock.Clock
	logger    logger.Logger
	ctx       context.Context
	schedules map[string]config.Schedule
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, svc *service.DecayService, clk clock.Clock, log logger.Logger) *Scheduler {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &Scheduler{
		cron:      cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
		service:   svc,
		clock:     clk,
		logger:    log.WithField("component", "scheduler"),
		ctx:       ctx,
		schedules: make(map[string]config.Schedule),
	}
}

// Register adds one cron job per schedule.
func (s *Scheduler) Register(schedules []config.Schedule) error {
	for _, sched := range schedules {
		sched := sched
		if _, ok := s.schedules[sched.Name]; ok {
			return fmt.Errorf("schedule %q already registered", sched.Name)
		}
		if _, err := s.cron.AddFunc(sched.Cron, func() { s.run(sched) }); err != nil {
			return fmt.Errorf("register schedule %q: %w", sched.Name, err)
		}
		s.schedules[sched.Name] = sched
	}

	s.logger.Info("schedules registered", map[string]interface{}{
		"count": len(s.schedules),
	})
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", nil)
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped", nil)
}

// RunNow executes the named schedule immediately.
func (s *Scheduler) RunNow(name string) (*entity.Calculation, error) {
	sched, ok := s.schedules[name]
	if !ok {
		return nil, fmt.Errorf("unknown schedule %q", name)
	}
	return s.snapshot(sched)
}

func (s *Scheduler) run(sched config.Schedule) {
	if _, err := s.snapshot(sched); err != nil {
		s.logger.Error("snapshot failed", map[string]interface{}{
			"schedule": sched.Name,
			"error":    err.Error(),
		})
	}
}

func (s *Scheduler) snapshot(sched config.Schedule) (*entity.Calculation, error) {
	today := s.clock.Now().UTC().Format("2006-01-02")

	calc, err := s.service.CreateCalculation(s.ctx, service.QuoteRequest{
		InitialAmount: sched.Amount,
		Rate:          sched.Rate,
		TargetDate:    today,
		Mode:          sched.Mode,
	}, SourcePrefix+sched.Name)
	if err != nil {
		return nil, fmt.Errorf("snapshot %q: %w", sched.Name, err)
	}

	s.logger.Info("snapshot recorded", map[string]interface{}{
		"schedule": sched.Name,
		"date":     today,
		"periods":  calc.Periods,
		"amount":   calc.Amount,
	})
	return calc, nil
}
