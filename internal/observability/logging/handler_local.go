//go:build !gcloud

package logging

import (
	"context"
	"log/slog"
)

// gcpTraceAttrs adds nothing locally: trace_id and span_id already correlate records.
func gcpTraceAttrs(context.Context, string) []slog.Attr {
	return nil
}
