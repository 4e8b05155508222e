//go:build integration_test || all_tests

package pgstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/gymprogress/internal/db"
	"github.com/2beens/gymprogress/internal/docstore"
	"github.com/2beens/gymprogress/internal/docstore/pgstore"
)

func testStoreSetup(t *testing.T) (*pgstore.Store, func()) {
	t.Helper()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	t.Logf("using postres host: %s", host)

	params := db.NewDBPoolParams{
		DBHost:         host,
		DBPort:         "5432",
		DBName:         "gymprogress",
		TracingEnabled: false,
	}
	require.NoError(t, db.RunMigrations(params, "../../../migrations"))

	dbPool, err := db.NewDBPool(timeoutCtx, params)
	require.NoError(t, err)

	_, err = dbPool.Exec(timeoutCtx, `DELETE FROM documents WHERE owner_id LIKE 'pgstore-test-%'`)
	require.NoError(t, err)

	return pgstore.New(dbPool, nil), func() {
		dbPool.Close()
	}
}

func TestStore_BasicCRUD(t *testing.T) {
	store, shutdown := testStoreSetup(t)
	defer shutdown()

	ctx := context.Background()
	owner := "pgstore-test-crud"

	id, err := store.Create(ctx, owner, "gymTemplates", docstore.Document{
		"name":      "Push",
		"createdAt": int64(1000),
		"exercises": []any{map[string]any{"id": "e1"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	path := docstore.Path{OwnerID: owner, Collection: "gymTemplates", ID: id}
	got, err := store.Get(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "Push", got["name"])
	assert.Equal(t, float64(1000), got["createdAt"])

	require.NoError(t, store.Update(ctx, path, docstore.Document{"name": "Pull"}))
	got, err = store.Get(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "Pull", got["name"])
	assert.Len(t, got["exercises"], 1)

	require.NoError(t, store.Delete(ctx, path))
	_, err = store.Get(ctx, path)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, path), docstore.ErrNotFound)
	assert.ErrorIs(t, store.Update(ctx, path, docstore.Document{}), docstore.ErrNotFound)
}

func TestStore_Query(t *testing.T) {
	store, shutdown := testStoreSetup(t)
	defer shutdown()

	ctx := context.Background()
	owner := "pgstore-test-query"

	ids := map[int64]string{}
	for _, startedAt := range []int64{100, 300, 200} {
		id, err := store.Create(ctx, owner, "gymSessions", docstore.Document{
			"startedAt":  startedAt,
			"templateId": "t1",
		})
		require.NoError(t, err)
		ids[startedAt] = id
	}
	_, err := store.Create(ctx, owner, "gymSessions", docstore.Document{"templateId": "t2"})
	require.NoError(t, err)

	snaps, err := store.Query(ctx, docstore.Query{
		OwnerID:    owner,
		Collection: "gymSessions",
		Where:      []docstore.Filter{docstore.Where("templateId", docstore.OpEq, "t1")},
		OrderBy:    "startedAt",
		Desc:       true,
		Limit:      2,
	})
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, ids[300], snaps[0].ID)
	assert.Equal(t, ids[200], snaps[1].ID)

	snaps, err = store.Query(ctx, docstore.Query{
		OwnerID:    owner,
		Collection: "gymSessions",
		Where: []docstore.Filter{
			docstore.Where("startedAt", docstore.OpGte, 100),
			docstore.Where("startedAt", docstore.OpLt, 300),
		},
		OrderBy: "startedAt",
	})
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, ids[100], snaps[0].ID)
	assert.Equal(t, ids[200], snaps[1].ID)
}
