package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSchedule_StopsOnCancel(t *testing.T) {
	logger = zerolog.Nop()
	sched, err := cron.ParseStandard("* * * * *")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runs := 0
	done := make(chan struct{})
	go func() {
		runSchedule(ctx, sched, time.Now, func(context.Context) { runs++ })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Zero(t, runs)
}

func TestRunSchedule_RunsAtActivation(t *testing.T) {
	logger = zerolog.Nop()
	sched := cron.Every(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan struct{}, 10)
	go runSchedule(ctx, sched, time.Now, func(context.Context) {
		runs <- struct{}{}
		cancel()
	})

	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled run did not happen")
	}
}

func TestScheduleCommand_Validation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "c.db")

	_, err := execute(t, "schedule", "--sqlite-path", dbPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule is required")

	_, err = execute(t, "schedule", "--cron", "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source is required")

	_, err = execute(t, "schedule", "--cron", "bogus", "--dir", t.TempDir())
	assert.Error(t, err)
}
