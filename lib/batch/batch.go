package batch

import (
	"context"
	"fmt"
	"log/slog"

	"ezsd/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("ezsd.lib.batch")

// PartialFailure is returned after every item has been attempted when at
// least one of them failed.
var PartialFailure = fmt.Errorf("one or more operations failed")

// Result is the outcome of one item's operation.
type Result[T any] struct {
	Item T
	Err  error
}

// Run applies op to every item in order, never aborting early. Failures are
// logged where they happen and reported per item in the returned results;
// the error is PartialFailure iff any item failed.
func Run[T any](ctx context.Context, name string, items []T, op func(context.Context, T) error) ([]Result[T], error) {
	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	results := make([]Result[T], len(items))
	failed := 0
	for i, item := range items {
		err := op(ctx, item)
		results[i] = Result[T]{Item: item, Err: err}
		if err != nil {
			failed++
			slog.ErrorContext(ctx, "operation failed",
				"batch", name, "item", i, "err", err)
		}
	}

	span.SetAttributes(
		attribute.Int("items", len(items)),
		attribute.Int("failed", failed),
	)
	if failed > 0 {
		span.SetStatus(codes.Error, "batch finished with failures")
		return results, PartialFailure
	}
	return results, nil
}
