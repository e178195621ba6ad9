package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shariahscreen/shariahscreen/internal/domain/ratio"
)

func seedSnapshot(t *testing.T, store *RatioSnapshotStore, symbol, sector string, observedAt time.Time) {
	t.Helper()
	err := store.Create(context.Background(), &ratio.Snapshot{
		ID:         "snap_" + symbol,
		Symbol:     symbol,
		Sector:     sector,
		ObservedAt: observedAt,
	})
	require.NoError(t, err)
}

func TestRatioSnapshotStore_ListOrderIsStable(t *testing.T) {
	store := NewRatioSnapshotStore()
	observed := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		seedSnapshot(t, store, fmt.Sprintf("SYM%d", i), "Technology", observed)
	}

	// A limited listing truncates the same sorted sequence on every call
	first, err := store.List(context.Background(), &ratio.Filter{Limit: 3})
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, "SYM0", first[0].Symbol)
	assert.Equal(t, "SYM1", first[1].Symbol)
	assert.Equal(t, "SYM2", first[2].Symbol)

	for i := 0; i < 10; i++ {
		again, err := store.List(context.Background(), &ratio.Filter{Limit: 3})
		require.NoError(t, err)
		require.Len(t, again, 3)
		for j := range again {
			assert.Equal(t, first[j].Symbol, again[j].Symbol)
		}
	}
}

func TestRatioSnapshotStore_ListReturnsLatestPerSymbol(t *testing.T) {
	store := NewRatioSnapshotStore()
	seedSnapshot(t, store, "DRIFT", "Industrials", time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC))

	newer := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	err := store.Create(context.Background(), &ratio.Snapshot{
		ID:         "snap_drift_2",
		Symbol:     "DRIFT",
		Sector:     "Industrials",
		ObservedAt: newer,
	})
	require.NoError(t, err)

	result, err := store.List(context.Background(), &ratio.Filter{Symbols: []string{"DRIFT"}})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, newer, result[0].ObservedAt)
}
