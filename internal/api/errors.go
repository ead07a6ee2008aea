// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package api

import (
	"errors"
	"net/http"

	"github.com/cinegraph/cinegraph/internal/engagement"
	"github.com/cinegraph/cinegraph/internal/logging"
	"github.com/cinegraph/cinegraph/internal/validation"
)

// respondServiceError maps service-layer errors onto HTTP statuses:
// missing entities and edges are 404, malformed requests 400, storage
// failures 503, everything else 500. The raw error text never reaches
// the client for unexpected failures.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)

	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		rw.ValidationError("Request validation failed", verr.Fields())
		return
	}

	switch {
	case errors.Is(err, engagement.ErrNotFound):
		rw.NotFound(err.Error())
	case errors.Is(err, engagement.ErrInvalidArgument):
		rw.BadRequest(err.Error())
	case errors.Is(err, engagement.ErrStorageUnavailable):
		logging.Error().Err(err).Str("path", r.URL.Path).Msg("Storage unavailable")
		rw.ServiceUnavailable("Storage temporarily unavailable")
	default:
		logging.Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled handler error")
		rw.InternalError("An internal error occurred")
	}
}
