package logging

import (
	"context"

	"github.com/samber/oops"
)

// LogError logs err at error level. oops errors are unpacked so their code
// and context become structured attributes.
func LogError(ctx context.Context, logger Logger, msg string, err error) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.Error(ctx, msg, "error", err)
		return
	}

	attrs := []any{"error", oopsErr.Error()}
	if code := oopsErr.Code(); code != nil {
		attrs = append(attrs, "code", code)
	}
	if oc := oopsErr.Context(); len(oc) > 0 {
		attrs = append(attrs, "context", oc)
	}
	logger.Error(ctx, msg, attrs...)
}
