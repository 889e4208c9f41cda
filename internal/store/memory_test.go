package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technoghar/repair-service/pkg/util"
)

func TestMemStoreGetMiss(t *testing.T) {
	s := NewMemStore()

	_, err := s.Get(context.Background(), "absent@example.com")
	require.Error(t, err)
	assert.True(t, util.IsNotFound(err))
}

func TestMemStoreSetGetRoundTrip(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	doc := Document{
		"name": "Asha",
		"activeRepair": map[string]any{
			"hasActiveRepair": true,
			"statusStep":      2,
		},
	}
	require.NoError(t, s.Set(ctx, "asha@example.com", doc))

	// mutating the original must not leak into the store
	doc["name"] = "changed"
	doc["activeRepair"].(map[string]any)["statusStep"] = 4

	got, err := s.Get(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got["name"])
	assert.Equal(t, 2, got["activeRepair"].(map[string]any)["statusStep"])
}

func TestMemStoreUpdatePathsMergesWithoutClobberingSiblings(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", Document{
		"name": "Asha",
		"activeRepair": map[string]any{
			"ticketId":      "TG-2024-1",
			"statusStep":    1,
			"estimatedDate": "Pending Diagnosis",
		},
	}))

	require.NoError(t, s.UpdatePaths(ctx, "k", map[string]any{
		"activeRepair.statusStep": 3,
	}))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	repair := got["activeRepair"].(map[string]any)
	assert.Equal(t, 3, repair["statusStep"])
	assert.Equal(t, "TG-2024-1", repair["ticketId"])
	assert.Equal(t, "Pending Diagnosis", repair["estimatedDate"])
	assert.Equal(t, "Asha", got["name"])
}

func TestMemStoreUpdatePathsCreatesIntermediateDocuments(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", Document{"name": "Asha"}))
	require.NoError(t, s.UpdatePaths(ctx, "k", map[string]any{
		"activeRepair.statusStep": 2,
	}))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 2, got["activeRepair"].(map[string]any)["statusStep"])
}

func TestMemStoreUpdatePathsMiss(t *testing.T) {
	s := NewMemStore()

	err := s.UpdatePaths(context.Background(), "absent", map[string]any{"name": "x"})
	assert.True(t, util.IsNotFound(err))
}

func TestMemStoreScanAllOrderedByKey(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "c@example.com", Document{"name": "C"}))
	require.NoError(t, s.Set(ctx, "a@example.com", Document{"name": "A"}))
	require.NoError(t, s.Set(ctx, "b@example.com", Document{"name": "B"}))

	docs, err := s.ScanAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "a@example.com", docs[0].Key)
	assert.Equal(t, "b@example.com", docs[1].Key)
	assert.Equal(t, "c@example.com", docs[2].Key)
}
