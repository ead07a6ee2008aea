// Cinegraph - Movie Catalog Social Backend
// Copyright 2026 Cinegraph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package database

import (
	"fmt"
	"io"

	"github.com/cinegraph/cinegraph/internal/engagement"
	"github.com/cinegraph/cinegraph/internal/logging"
)

// closeQuietly closes a resource ignoring the error. Cleanup is
// best-effort.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// closeWithLog closes a resource and logs failures.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// storageErr wraps a driver failure as engagement.ErrStorageUnavailable,
// preserving the original message for logs. Callers classify with
// errors.Is.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, engagement.ErrStorageUnavailable)
}

// notFoundErr builds an engagement.ErrNotFound with entity context.
func notFoundErr(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, engagement.ErrNotFound)
}
