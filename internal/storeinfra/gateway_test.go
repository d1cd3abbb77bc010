package storeinfra_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-newsnet/internal/storeinfra"
	"github.com/goliatone/go-newsnet/pkg/testsupport"
	"github.com/goliatone/go-newsnet/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seeded(t *testing.T) store.Gateway {
	t.Helper()
	db := testsupport.OpenSQLite(t)
	testsupport.Seed(t, db, testsupport.Newsroom(time.Now().UTC().Truncate(time.Second)))
	return storeinfra.NewGateway(db)
}

func TestGateway_Query(t *testing.T) {
	gw := seeded(t)

	rows, err := gw.Query(context.Background(),
		"SELECT id, is_code, views FROM news WHERE status = ? ORDER BY id ASC LIMIT ?", "1", 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ABC123", rows[0].String("is_code"))
	assert.Equal(t, int64(100), rows[0].Int64("views"))
}

func TestGateway_QueryNoRows(t *testing.T) {
	gw := seeded(t)

	rows, err := gw.Query(context.Background(), "SELECT id FROM news WHERE is_code = ?", "NOPE00")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGateway_Count(t *testing.T) {
	gw := seeded(t)

	total, err := gw.Count(context.Background(),
		"SELECT COUNT(n.id) AS total FROM news n INNER JOIN news_network nn ON nn.news_id = n.id WHERE nn.net_id = ? AND n.status = ?",
		int64(2), "1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestGateway_ArgumentsAreNeverSpliced(t *testing.T) {
	gw := seeded(t)

	rows, err := gw.Query(context.Background(), "SELECT id FROM news WHERE is_code = ?", "x' OR '1'='1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGateway_Increment(t *testing.T) {
	gw := seeded(t)
	ctx := context.Background()

	err := gw.Increment(ctx, store.Increment{Table: "news", Column: "views", KeyColumn: "is_code", Key: "DEF456", By: 7})
	require.NoError(t, err)

	total, err := gw.Count(ctx, "SELECT views FROM news WHERE is_code = ?", "DEF456")
	require.NoError(t, err)
	assert.Equal(t, int64(507), total)

	err = gw.Increment(ctx, store.Increment{Table: "news", Column: "views", KeyColumn: "is_code", Key: "NOPE00", By: 1})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGateway_ErrorsAreWrapped(t *testing.T) {
	gw := seeded(t)

	_, err := gw.Query(context.Background(), "SELECT nope FROM missing_table")
	require.Error(t, err)

	var se *store.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "query", se.Op)
	assert.True(t, se.Retryable())
	assert.True(t, store.IsStoreError(err))
}

type recordingObserver struct {
	mu    sync.Mutex
	ops   []string
	fails int
}

func (r *recordingObserver) ObserveQuery(operation string, elapsed time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, operation)
	if err != nil {
		r.fails++
	}
}

func TestGateway_ReportsStatements(t *testing.T) {
	db := testsupport.OpenSQLite(t)
	obs := &recordingObserver{}
	gw := storeinfra.NewGateway(db,
		storeinfra.WithQueryObserver(obs),
		storeinfra.WithLogger(zap.NewNop()),
		storeinfra.WithSlowQuery(time.Nanosecond),
	)
	ctx := context.Background()

	_, err := gw.Query(ctx, "SELECT id FROM news")
	require.NoError(t, err)
	_, err = gw.Query(ctx, "SELECT nope FROM missing_table")
	require.Error(t, err)
	_, err = gw.Count(ctx, "SELECT COUNT(id) FROM news")
	require.NoError(t, err)
	err = gw.Increment(ctx, store.Increment{Table: "news", Column: "views", KeyColumn: "is_code", Key: "NOPE00", By: 1})
	require.ErrorIs(t, err, store.ErrNotFound)

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, []string{"query", "query", "count", "increment"}, obs.ops)
	assert.Equal(t, 1, obs.fails)
}

func TestGateway_BindsArgumentTypes(t *testing.T) {
	gw := seeded(t)
	ctx := context.Background()

	rows, err := gw.Query(ctx, "SELECT typeof(?) AS a, typeof(?) AS b, ? AS c", int64(5), "5", "it's ?")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "integer", rows[0].String("a"))
	assert.Equal(t, "text", rows[0].String("b"))
	assert.Equal(t, "it's ?", rows[0].String("c"))
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	cfg := storeinfra.DefaultConfig()
	cfg.Driver = "oracle"
	cfg.DSN = "whatever"

	_, err := storeinfra.Open(cfg)
	assert.Error(t, err)
}
