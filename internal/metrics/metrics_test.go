// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/films/popular", "200"))
	RecordAPIRequest("GET", "/api/v1/films/popular", "200", 25*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/films/popular", "200"))
	if after != before+1 {
		t.Errorf("expected counter to increase by 1, got %f -> %f", before, after)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	base := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != base+1 {
		t.Errorf("expected gauge %f, got %f", base+1, got)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != base {
		t.Errorf("expected gauge %f, got %f", base, got)
	}
}

func TestRecordMutation(t *testing.T) {
	before := testutil.ToFloat64(EngagementMutations.WithLabelValues("like", "add"))
	RecordMutation("like", "add")
	RecordMutation("like", "add")
	after := testutil.ToFloat64(EngagementMutations.WithLabelValues("like", "add"))
	if after != before+2 {
		t.Errorf("expected counter to increase by 2, got %f -> %f", before, after)
	}
}

func TestRecordDBError(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("select", "likes"))
	RecordDBError("select", "likes")
	after := testutil.ToFloat64(DBQueryErrors.WithLabelValues("select", "likes"))
	if after != before+1 {
		t.Errorf("expected counter to increase by 1, got %f -> %f", before, after)
	}
}
