package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnectMongo_InvalidURI(t *testing.T) {
	_, err := ConnectMongo(context.Background(), "not-a-uri", time.Second)
	require.Error(t, err)
}

func TestConnectWithRetry_ReportsEveryAttempt(t *testing.T) {
	var seen []int
	_, err := ConnectWithRetry(context.Background(), "not-a-uri", time.Second, 3, time.Millisecond, func(attempt int, err error) {
		seen = append(seen, attempt)
	})
	require.Error(t, err)
	require.Equal(t, []int{1, 2, 3}, seen)
}

func TestConnectWithRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := ConnectWithRetry(ctx, "not-a-uri", time.Second, 5, time.Hour, func(int, error) {
		calls++
		cancel()
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}
