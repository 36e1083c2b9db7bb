package inmemdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tasktutor/core"
)

func TestDB_CRUD(t *testing.T) {
	db, err := Open()
	require.NoError(t, err)
	ctx := context.Background()

	for i, name := range []string{"Ada", "Grace", "Linus"} {
		_, err := db.Insert(ctx, "users_public", core.Record{"id": name, "name": name, "rank": i})
		require.NoError(t, err)
	}

	rows, err := db.Select(ctx, "users_public", nil, core.DBOrdering{Field: "rank"})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Linus", rows[0].String("name"), "descending by rank")

	rows, err = db.Select(ctx, "users_public", core.Match{"name": "Grace"})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	upd, err := db.Update(ctx, "users_public", core.Match{"id": "Grace"}, core.Record{"name": "Grace H."})
	require.NoError(t, err)
	assert.Equal(t, "Grace H.", upd.String("name"))

	_, err = db.Update(ctx, "users_public", core.Match{"id": "nobody"}, core.Record{"name": "x"})
	assert.Equal(t, core.ErrRecordNotFound, err)

	del, err := db.Delete(ctx, "users_public", core.Match{"id": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", del.String("name"))

	_, err = db.Delete(ctx, "users_public", core.Match{"id": "Ada"})
	assert.Equal(t, core.ErrRecordNotFound, err)

	rows, err = db.Select(ctx, "users_public", nil)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = db.Select(ctx, "missing_table", nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDB_SelectReturnsCopies(t *testing.T) {
	db, _ := Open()
	ctx := context.Background()
	_, _ = db.Insert(ctx, "tasks", core.Record{"id": 1, "title": "a"})

	rows, _ := db.Select(ctx, "tasks", nil)
	rows[0]["title"] = "mutated"

	rows, _ = db.Select(ctx, "tasks", nil)
	assert.Equal(t, "a", rows[0].String("title"))
}

func TestDB_RejectsBadIdents(t *testing.T) {
	db, _ := Open()
	_, err := db.Insert(context.Background(), "tasks;drop", core.Record{"id": 1})
	assert.Error(t, err)
	_, err = db.Select(context.Background(), "tasks", core.Match{"1=1 OR id": 1})
	assert.Error(t, err)
}
