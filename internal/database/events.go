// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package database

import (
	"context"

	"github.com/cinegraph/cinegraph/internal/models"
)

// Append implements engagement.EventLog. The event ID comes from the
// sequence, giving ties on the millisecond timestamp a stable insertion
// order.
func (db *DB) Append(ctx context.Context, event models.Event) error {
	_, err := db.q(ctx).ExecContext(ctx,
		`INSERT INTO events (ts, user_id, event_type, operation, entity_id)
		 VALUES (?, ?, ?, ?, ?)`,
		event.Timestamp, event.UserID, string(event.EventType), string(event.Operation), event.EntityID)
	if err != nil {
		return storageErr("appending event", err)
	}
	return nil
}

// FeedFor implements engagement.EventLog.
func (db *DB) FeedFor(ctx context.Context, userID int64) ([]models.Event, error) {
	rows, err := db.q(ctx).QueryContext(ctx,
		`SELECT event_id, ts, user_id, event_type, operation, entity_id
		 FROM events
		 WHERE user_id = ?
		 ORDER BY ts, event_id`,
		userID)
	if err != nil {
		return nil, storageErr("querying feed", err)
	}
	defer closeWithLog(rows, "rows")

	var events []models.Event
	for rows.Next() {
		var ev models.Event
		var eventType, operation string
		if err := rows.Scan(&ev.EventID, &ev.Timestamp, &ev.UserID, &eventType, &operation, &ev.EntityID); err != nil {
			return nil, storageErr("scanning event", err)
		}
		ev.EventType = models.EventType(eventType)
		ev.Operation = models.Operation(operation)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterating events", err)
	}
	return events, nil
}
