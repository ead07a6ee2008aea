// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package models

// EventType classifies the domain action recorded in the activity feed.
type EventType string

// Event types.
const (
	EventTypeLike   EventType = "LIKE"
	EventTypeFriend EventType = "FRIEND"
	EventTypeReview EventType = "REVIEW"
)

// Operation is the mutation kind applied to the event's subject entity.
type Operation string

// Operations.
const (
	OperationAdd    Operation = "ADD"
	OperationRemove Operation = "REMOVE"
	OperationUpdate Operation = "UPDATE"
)

// Event is one immutable, append-only activity record. EventID is assigned
// by storage; Timestamp is epoch milliseconds. Feed ordering is by
// Timestamp ascending with EventID breaking ties (insertion order).
type Event struct {
	EventID   int64     `json:"eventId"`
	Timestamp int64     `json:"timestamp"`
	UserID    int64     `json:"userId"`
	EventType EventType `json:"eventType"`
	Operation Operation `json:"operation"`
	EntityID  int64     `json:"entityId"`
}
