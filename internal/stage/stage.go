package stage

import (
	"context"
	"errors"

	"reviewer/internal/artifact"
	"reviewer/internal/llmclient"
)

const defaultWorkers = 4

// unanalyzed builds the sentinel result for a path that produced no analysis.
func unanalyzed(path, reason string) artifact.Result {
	return artifact.Result{Path: path, Unanalyzed: true, Reason: reason}
}

// failureReason renders a request failure for the artifact. Callers have
// already exhausted retries by the time an error reaches a runner.
func failureReason(err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled before analysis: " + err.Error()
	case llmclient.IsPermanent(err):
		return "rejected by service: " + err.Error()
	default:
		return "retries exhausted: " + err.Error()
	}
}
