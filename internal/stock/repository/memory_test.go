package repository

import (
	"context"
	"testing"

	"github.com/stockboard/stockboard/internal/stock"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepo_AppendAndList(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo(stock.NewRecord("title", "first"))
	require.NoError(t, r.Append(ctx, stock.NewRecord("title", "second")))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "first", list[0].Title())
	require.Equal(t, "second", list[1].Title())

	// returned records are copies
	list[0].Set("title", "changed")
	again, err := r.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "first", again[0].Title())
}

func TestMemoryRepo_EmptyListIsNotNil(t *testing.T) {
	list, err := NewMemoryRepo().List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}
