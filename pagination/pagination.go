// Package pagination implements the generic paginated-request driver
// (§4.K): repeatedly invoking a command, accumulating items, and
// enforcing that every page agrees on the same total count.
package pagination

import (
	"context"

	"github.com/teco-project/teco-core-sub000/provider"
	"github.com/teco-project/teco-core-sub000/region"
	"github.com/teco-project/teco-core-sub000/tcerr"
)

// Logger is the contextual logger the driver tags with a
// "pagination-seq" field per page.
type Logger = provider.Logger

// Command invokes one page of a paginated call.
type Command[Req, Resp any] func(ctx context.Context, req Req, r region.Region, logger Logger) (Resp, error)

// Hooks are the per-request/response-type extraction points the driver
// needs and cannot infer generically: how to pull the item page and
// total count out of a response, and how to compute the next request
// (or report there isn't one).
type Hooks[Req, Resp, Item any] struct {
	ExtractItems       func(resp Resp) []Item
	ExtractTotalCount  func(resp Resp) (int64, bool)
	ComputeNextRequest func(req Req, resp Resp) (Req, bool)
}

// Run drives initial through Command page by page, starting at sequence
// id 0, until a page yields no items or no next request. It returns the
// accumulated items across every page and the single total count every
// page must have agreed on.
func Run[Req, Resp, Item any](
	ctx context.Context,
	initial Req,
	r region.Region,
	command Command[Req, Resp],
	hooks Hooks[Req, Resp, Item],
	logger Logger,
) (int64, []Item, error) {
	var accumulated []Item
	var recordedTotal int64
	var haveTotal bool

	currentRequest := initial
	for seq := 0; ; seq++ {
		resp, err := command(ctx, currentRequest, r, withPaginationSeq(logger, seq))
		if err != nil {
			return 0, nil, err
		}

		items := hooks.ExtractItems(resp)
		if len(items) == 0 {
			return recordedTotal, accumulated, nil
		}

		if total, ok := hooks.ExtractTotalCount(resp); ok {
			if haveTotal && recordedTotal != total {
				return 0, nil, tcerr.NewTotalCountChanged(recordedTotal, total)
			}
			recordedTotal = total
			haveTotal = true
		}

		accumulated = append(accumulated, items...)

		next, ok := hooks.ComputeNextRequest(currentRequest, resp)
		if !ok {
			return recordedTotal, accumulated, nil
		}
		currentRequest = next
	}
}

// seqLogger tags every log line a page emits with its pagination
// sequence id, without requiring Logger itself to grow a tagging method.
type seqLogger struct {
	inner Logger
	seq   int
}

func withPaginationSeq(logger Logger, seq int) Logger {
	if logger == nil {
		return provider.NopLogger{}
	}
	return seqLogger{inner: logger, seq: seq}
}

func (l seqLogger) Info(ctx context.Context, msg string, kv ...any) {
	l.inner.Info(ctx, msg, append(kv, "pagination-seq", l.seq)...)
}

func (l seqLogger) Debug(ctx context.Context, msg string, kv ...any) {
	l.inner.Debug(ctx, msg, append(kv, "pagination-seq", l.seq)...)
}

func (l seqLogger) Trace(ctx context.Context, msg string, kv ...any) {
	l.inner.Trace(ctx, msg, append(kv, "pagination-seq", l.seq)...)
}

func (l seqLogger) Error(ctx context.Context, msg string, err error, kv ...any) {
	l.inner.Error(ctx, msg, err, append(kv, "pagination-seq", l.seq)...)
}
