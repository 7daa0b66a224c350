package tsfile

import (
	"io"
	"log/slog"
)

// discardLogger backs every writer that is not given an explicit logger.
// Logging here is informational only: nothing in the write path branches
// on whether a logger is configured, or on what it logs.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func orDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return discardLogger
	}
	return l
}
