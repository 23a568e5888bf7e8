package scheduler

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/damon-houk/emission-decay/internal/application/service"
	"github.com/damon-houk/emission-decay/internal/config"
	"github.com/damon-houk/emission-decay/internal/domain/clock"
	"github.com/damon-houk/emission-decay/internal/infrastructure/db"
	"github.com/damon-houk/emission-decay/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T, now time.Time) (*Scheduler, *db.MemoryCalculationRepository) {
	log := logger.NewJSONLogger(io.Discard, logger.ErrorLevel)
	repo := db.NewMemoryCalculationRepository()
	clk := clock.Fixed(now)

	svc := service.NewDecayService(repo, nil, clk, log)
	return NewScheduler(context.Background(), svc, clk, log), repo
}

func TestRunNow(t *testing.T) {
	s, repo := newTestScheduler(t, time.Date(2025, 4, 30, 18, 45, 0, 0, time.UTC))

	require.NoError(t, s.Register([]config.Schedule{
		{Name: "float", Cron: "@daily", Amount: 1000, Rate: 0.05, Mode: "float"},
		{Name: "fixed", Cron: "@daily", Amount: 1000, Rate: 0.05, Mode: "fixed"},
	}))

	calc, err := s.RunNow("float")
	require.NoError(t, err)
	assert.Equal(t, "schedule:float", calc.Source)
	assert.Equal(t, int64(2), calc.Periods)
	assert.InDelta(t, 902.5, calc.Amount, 1e-9)
	assert.Equal(t, "2025-04-30", calc.TargetDate.Format("2006-01-02"))

	calc, err = s.RunNow("fixed")
	require.NoError(t, err)
	assert.Equal(t, "fixed", calc.Mode)
	assert.Equal(t, 902.5, calc.Amount)

	calcs, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, calcs, 2)

	_, err = s.RunNow("missing")
	assert.ErrorContains(t, err, "unknown schedule")
}

func TestRegisterErrors(t *testing.T) {
	s, _ := newTestScheduler(t, time.Now())

	err := s.Register([]config.Schedule{{Name: "bad", Cron: "not a cron", Amount: 1, Rate: 0.1}})
	assert.ErrorContains(t, err, `register schedule "bad"`)

	require.NoError(t, s.Register([]config.Schedule{{Name: "daily", Cron: "@daily", Amount: 1, Rate: 0.1}}))
	err = s.Register([]config.Schedule{{Name: "daily", Cron: "@hourly", Amount: 1, Rate: 0.1}})
	assert.ErrorContains(t, err, "already registered")
}

func TestCronTriggersSnapshot(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping timing test in short mode")
	}

	s, repo := newTestScheduler(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC))
	require.NoError(t, s.Register([]config.Schedule{
		{Name: "every-second", Cron: "* * * * * *", Amount: 500, Rate: 0.05, Mode: "float"},
	}))

	s.Start()
	assert.Eventually(t, func() bool {
		calcs, err := repo.List(context.Background())
		return err == nil && len(calcs) > 0
	}, 3*time.Second, 50*time.Millisecond)
	s.Stop()

	calcs, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 500.0, calcs[0].Amount)
	assert.Equal(t, "schedule:every-second", calcs[0].Source)
}
