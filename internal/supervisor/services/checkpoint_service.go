// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package services

import (
	"context"
	"time"

	"github.com/cinegraph/cinegraph/internal/logging"
	"github.com/cinegraph/cinegraph/internal/metrics"
)

// Checkpointer flushes the storage write-ahead log.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService periodically checkpoints the database so a crash
// between shutdowns loses at most one interval of WAL.
type CheckpointService struct {
	db       Checkpointer
	interval time.Duration
}

// NewCheckpointService creates the service. intervals <= 0 select 5m.
func NewCheckpointService(db Checkpointer, interval time.Duration) *CheckpointService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CheckpointService{db: db, interval: interval}
}

// Serve implements suture.Service.
func (s *CheckpointService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.db.Checkpoint(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				metrics.RecordDBError("checkpoint", "wal")
				logging.Warn().Err(err).Msg("Periodic checkpoint failed")
				continue
			}
			metrics.RecordDBQuery("checkpoint", "wal", time.Since(start))
			logging.Debug().Dur("elapsed", time.Since(start)).Msg("Checkpoint complete")
		}
	}
}

// String identifies the service in supervisor logs.
func (s *CheckpointService) String() string {
	return "db-checkpoint"
}
