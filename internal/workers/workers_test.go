// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockWorker counts Run calls and blocks until ctx is done unless err is set.
type mockWorker struct {
	runCount atomic.Int64
	err      error
}

func (m *mockWorker) Run(ctx context.Context) error {
	m.runCount.Add(1)
	if m.err != nil {
		return m.err
	}
	<-ctx.Done()
	return nil
}

// spyJob records Start and Stop calls of a ClientSyncJob.
type spyJob struct {
	started  atomic.Int64
	stopped  atomic.Int64
	interval atomic.Int64
}

func (s *spyJob) Start(_ context.Context, interval time.Duration) {
	s.started.Add(1)
	s.interval.Store(int64(interval))
}

func (s *spyJob) Stop() {
	s.stopped.Add(1)
}

func runFor(t *testing.T, ws *Workers, d time.Duration) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- ws.Run(ctx) }()

	select {
	case err := <-done:
		return err
	case <-time.After(d + time.Second):
		t.Fatal("workers did not stop after the context was cancelled")
		return nil
	}
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1, w2, w3 := &mockWorker{}, &mockWorker{}, &mockWorker{}
	ws := &Workers{workers: []Worker{w1, w2, w3}}

	require.NoError(t, runFor(t, ws, 20*time.Millisecond))

	for i, w := range []*mockWorker{w1, w2, w3} {
		assert.Equal(t, int64(1), w.runCount.Load(), "worker[%d]", i)
	}
}

func TestWorkers_Run_FailureStopsOthers(t *testing.T) {
	boom := errors.New("boom")
	ws := &Workers{workers: []Worker{&mockWorker{}, &mockWorker{err: boom}}}

	err := runFor(t, ws, time.Minute)

	assert.ErrorIs(t, err, boom)
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := &Workers{}

	assert.NoError(t, ws.Run(context.Background()))
}

func TestNewWorkers_SyncWorkerDrivesJob(t *testing.T) {
	job := &spyJob{}
	ws := NewWorkers(&service.ClientServices{SyncJob: job}, config.ClientWorkers{SyncInterval: time.Minute})

	require.NoError(t, runFor(t, ws, 20*time.Millisecond))

	assert.Equal(t, int64(1), job.started.Load())
	assert.Equal(t, int64(1), job.stopped.Load())
	assert.Equal(t, int64(time.Minute), job.interval.Load())
}
