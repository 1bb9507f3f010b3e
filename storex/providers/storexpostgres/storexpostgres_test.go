package storexpostgres

import (
	"testing"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/Conversia-AI/craftable-serialx/storex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSelect(t *testing.T) {
	query, params := buildSelect("users", storex.DefaultQuery())
	assert.Equal(t, `SELECT * FROM "users"`, query)
	assert.Empty(t, params)

	q := storex.DefaultQuery().
		WithFilter("team", "a").
		WithFilter("active", true).
		WithOrder("created_at", true).
		WithLimit(10).
		WithFields("id", "name")
	query, params = buildSelect("users", q)
	assert.Equal(t,
		`SELECT "id", "name" FROM "users" WHERE "active" = $1 AND "team" = $2 ORDER BY "created_at" DESC LIMIT 10`,
		query)
	assert.Equal(t, []any{true, "a"}, params)
}

func TestBuildInsert(t *testing.T) {
	query, arg, err := buildInsert("users", map[string]any{
		"name":    "Ann",
		"id":      1,
		"address": map[string]any{"city": "Lima"},
		"tags":    []any{"x"},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`INSERT INTO "users" ("address", "id", "name", "tags") VALUES (:address, :id, :name, :tags)`,
		query)
	assert.Equal(t, "Ann", arg["name"])

	addr, err := arg["address"].(JSONB).Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"city":"Lima"}`, string(addr.([]byte)))

	tags, err := arg["tags"].(JSONArray).Value()
	require.NoError(t, err)
	assert.JSONEq(t, `["x"]`, string(tags.([]byte)))

	_, _, err = buildInsert("users", map[string]any{})
	assert.True(t, errx.IsCode(err, storex.ErrInvalidQuery))

	_, _, err = buildInsert("users", map[string]any{"bad key": 1})
	assert.True(t, errx.IsCode(err, storex.ErrInvalidQuery))
}

func TestJSONBScan(t *testing.T) {
	var j JSONB
	require.NoError(t, j.Scan([]byte(`{"a":1}`)))
	assert.Equal(t, JSONB{"a": float64(1)}, j)

	require.NoError(t, j.Scan(nil))
	assert.Nil(t, j)

	assert.Error(t, j.Scan(42))
}
