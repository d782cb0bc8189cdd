package pagination_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teco-project/teco-core-sub000/pagination"
	"github.com/teco-project/teco-core-sub000/provider"
	"github.com/teco-project/teco-core-sub000/region"
	"github.com/teco-project/teco-core-sub000/tcerr"
)

type listRequest struct {
	Offset int
}

type listResponse struct {
	Items      []string
	TotalCount int64
}

var hooks = pagination.Hooks[listRequest, listResponse, string]{
	ExtractItems: func(r listResponse) []string { return r.Items },
	ExtractTotalCount: func(r listResponse) (int64, bool) {
		return r.TotalCount, true
	},
	ComputeNextRequest: func(req listRequest, resp listResponse) (listRequest, bool) {
		if len(resp.Items) == 0 {
			return listRequest{}, false
		}
		return listRequest{Offset: req.Offset + len(resp.Items)}, true
	},
}

func TestRunStopsWhenAPageReturnsEmptyItems(t *testing.T) {
	pages := []listResponse{
		{Items: []string{"a", "b"}, TotalCount: 10},
		{Items: nil, TotalCount: 10},
	}
	call := 0
	command := func(ctx context.Context, req listRequest, r region.Region, logger pagination.Logger) (listResponse, error) {
		resp := pages[call]
		call++
		return resp, nil
	}

	total, items, err := pagination.Run[listRequest, listResponse, string](
		context.Background(), listRequest{}, region.Region{}, command, hooks, provider.NopLogger{})
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)
	assert.Equal(t, []string{"a", "b"}, items)
	assert.Equal(t, 2, call)
}

func TestRunFailsOnTotalCountChange(t *testing.T) {
	pages := []listResponse{
		{Items: []string{"a"}, TotalCount: 10},
		{Items: []string{"b"}, TotalCount: 9},
	}
	call := 0
	command := func(ctx context.Context, req listRequest, r region.Region, logger pagination.Logger) (listResponse, error) {
		resp := pages[call]
		call++
		return resp, nil
	}

	_, _, err := pagination.Run[listRequest, listResponse, string](
		context.Background(), listRequest{}, region.Region{}, command, hooks, provider.NopLogger{})
	require.Error(t, err)
	var pagErr *tcerr.PaginationError
	require.ErrorAs(t, err, &pagErr)
	assert.Equal(t, "total-count-changed", pagErr.Kind)
}

func TestRunSucceedsWhenEmptyFinalPageDisagreesOnTotalCount(t *testing.T) {
	pages := []listResponse{
		{Items: []string{"a", "b"}, TotalCount: 10},
		{Items: nil, TotalCount: 9},
	}
	call := 0
	command := func(ctx context.Context, req listRequest, r region.Region, logger pagination.Logger) (listResponse, error) {
		resp := pages[call]
		call++
		return resp, nil
	}

	total, items, err := pagination.Run[listRequest, listResponse, string](
		context.Background(), listRequest{}, region.Region{}, command, hooks, provider.NopLogger{})
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)
	assert.Equal(t, []string{"a", "b"}, items)
	assert.Equal(t, 2, call)
}

func TestRunStopsWhenNoNextRequestIsComputed(t *testing.T) {
	singleHooks := pagination.Hooks[listRequest, listResponse, string]{
		ExtractItems:      hooks.ExtractItems,
		ExtractTotalCount: hooks.ExtractTotalCount,
		ComputeNextRequest: func(req listRequest, resp listResponse) (listRequest, bool) {
			return listRequest{}, false
		},
	}
	command := func(ctx context.Context, req listRequest, r region.Region, logger pagination.Logger) (listResponse, error) {
		return listResponse{Items: []string{"only"}, TotalCount: 1}, nil
	}

	total, items, err := pagination.Run[listRequest, listResponse, string](
		context.Background(), listRequest{}, region.Region{}, command, singleHooks, provider.NopLogger{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"only"}, items)
}
