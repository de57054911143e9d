// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	var calls atomic.Int32
	count := WorkerFunc(func(context.Context) error {
		calls.Add(1)
		return nil
	})

	ws := New(count, count)
	ws.Add(count)

	assert.NoError(t, ws.Run(context.Background()))
	assert.Equal(t, int32(3), calls.Load())
}

func TestWorkers_Run_Empty(t *testing.T) {
	// пустой список не должен паниковать
	assert.NoError(t, New().Run(context.Background()))
	assert.NoError(t, (&Workers{}).Run(context.Background()))
}

func TestWorkers_Run_FailureCancelsOthers(t *testing.T) {
	errBoom := errors.New("boom")

	blocking := WorkerFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	failing := WorkerFunc(func(context.Context) error {
		return errBoom
	})

	done := make(chan error, 1)
	go func() { done <- New(blocking, failing).Run(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, errBoom)
	case <-time.After(time.Second):
		t.Fatal("blocking worker was not cancelled")
	}
}

func TestWorkers_Run_StopsWithParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	loop := WorkerFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- New(loop, loop).Run(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}
