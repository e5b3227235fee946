package sitecfg

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql" // enable mysql dialect
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/motorhall/motorhall/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func createRepository(t *testing.T) *Repository {
	t.Helper()

	cfg := config.LoadConfig("../")

	db, err := sql.Open("mysql", cfg.DSN)
	require.NoError(t, err)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})

	return NewRepository(goqu.New("mysql", db), redisClient)
}

func TestSetGet(t *testing.T) {
	t.Parallel()

	repository := createRepository(t)
	ctx := testContext(t)

	key := "test-" + uuid.NewString()

	err := repository.Set(ctx, key, json.RawMessage(`{"rate": 4.9}`))
	require.NoError(t, err)

	value, err := repository.Get(ctx, key)
	require.NoError(t, err)
	require.JSONEq(t, `{"rate": 4.9}`, string(value))

	// second read comes from the cache
	value, err = repository.Get(ctx, key)
	require.NoError(t, err)
	require.JSONEq(t, `{"rate": 4.9}`, string(value))
}

func TestUpsertInvalidatesCache(t *testing.T) {
	t.Parallel()

	repository := createRepository(t)
	ctx := testContext(t)

	key := "test-" + uuid.NewString()

	err := repository.Set(ctx, key, json.RawMessage(`1`))
	require.NoError(t, err)

	_, err = repository.Get(ctx, key)
	require.NoError(t, err)

	err = repository.Set(ctx, key, json.RawMessage(`2`))
	require.NoError(t, err)

	value, err := repository.Get(ctx, key)
	require.NoError(t, err)
	require.JSONEq(t, `2`, string(value))
}

func TestMissingKey(t *testing.T) {
	t.Parallel()

	repository := createRepository(t)

	_, err := repository.Get(testContext(t), "missing-"+uuid.NewString())
	require.ErrorIs(t, err, ErrKeyNotFound)
}
