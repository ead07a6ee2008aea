// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingCheckpointer struct {
	calls atomic.Int64
	err   error
}

func (c *countingCheckpointer) Checkpoint(_ context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestCheckpointServiceRunsPeriodically(t *testing.T) {
	cp := &countingCheckpointer{}
	svc := NewCheckpointService(cp, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.After(5 * time.Second)
	for cp.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d checkpoints before deadline", cp.calls.Load())
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestCheckpointServiceSurvivesErrors(t *testing.T) {
	cp := &countingCheckpointer{err: errors.New("disk full")}
	svc := NewCheckpointService(cp, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.After(5 * time.Second)
	for cp.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("service stopped retrying after checkpoint error")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestCheckpointServiceDefaults(t *testing.T) {
	svc := NewCheckpointService(&countingCheckpointer{}, 0)
	if svc.interval != 5*time.Minute {
		t.Errorf("interval = %v, want 5m", svc.interval)
	}
	if svc.String() != "db-checkpoint" {
		t.Errorf("String() = %q", svc.String())
	}
}
