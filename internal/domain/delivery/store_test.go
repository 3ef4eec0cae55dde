package delivery_test

import (
	"testing"

	"github.com/rpggio/painel/internal/domain/delivery"
	"github.com/stretchr/testify/require"
)

func TestStore_ReplaceSupersedes(t *testing.T) {
	store := delivery.NewStore()
	d1 := delivery.DeliveryInProgress{ID: "d1", Ticket: "T-1", Status: delivery.StatusLoading, Progress: 10}
	d2 := delivery.DeliveryInProgress{ID: "d2", Ticket: "T-2", Status: delivery.StatusInTransit, Progress: 55}
	d3 := delivery.DeliveryInProgress{ID: "d3", Ticket: "T-3", Status: delivery.StatusUnloading, Progress: 90}

	store.Replace([]delivery.DeliveryInProgress{d1, d2})
	require.Equal(t, 2, store.Len())

	store.Replace([]delivery.DeliveryInProgress{d3})
	require.Equal(t, []delivery.DeliveryInProgress{d3}, store.List())
}

func TestStore_ReplaceIdempotent(t *testing.T) {
	store := delivery.NewStore()
	snapshot := []delivery.DeliveryInProgress{{ID: "d1"}, {ID: "d2"}}

	store.Replace(snapshot)
	first := store.List()
	store.Replace(snapshot)
	require.Equal(t, first, store.List())
}

func TestStore_ReplaceCopiesArgument(t *testing.T) {
	store := delivery.NewStore()
	snapshot := []delivery.DeliveryInProgress{{ID: "d1", Progress: 10}}
	store.Replace(snapshot)

	snapshot[0].Progress = 99
	require.Equal(t, 10, store.List()[0].Progress)
}

func TestStore_ReplaceAcceptsGarbage(t *testing.T) {
	store := delivery.NewStore()
	store.Replace([]delivery.DeliveryInProgress{{ID: "d1", Progress: 250, Status: "???"}})
	require.Equal(t, 250, store.List()[0].Progress)

	store.Replace(nil)
	require.Empty(t, store.List())
	require.Equal(t, 0, store.Len())
}
