package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"shade-match/internal/finish"
	"shade-match/internal/region"
	"shade-match/pkg/colorutil"
)

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}

func TestStoreLoadAll(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("testcontainers panicked: %v", r)
			}
		}()
		_, err = testcontainers.NewDockerClientWithOpts(ctx)
		return
	}()
	if err != nil {
		t.Skipf("Docker not available: %v", err)
	}

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("shade_match_test"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
		testcontainers.WithLogger(noopLogger{}),
	)
	require.NoError(t, err)
	defer pgContainer.Terminate(ctx)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	store, err := NewStore(ctx, connStr)
	require.NoError(t, err)
	defer store.Close(ctx)

	_, err = store.conn.Exec(ctx, `
		INSERT INTO products (id, brand, name, shade_name, category, finish, color_lab, price, created_at)
		VALUES
			('p1', 'Rouge', 'Velvet Lip', 'Coral Crush', 'lip', 'matte', ARRAY[40, 55, 28], 18.5, NOW() - INTERVAL '1 hour'),
			('p2', 'Bloom', 'Cheek Tint', 'Peach', 'cheek', '', ARRAY[70, 20, 22], 9, NOW())
	`)
	require.NoError(t, err)

	entries, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "p1", entries[0].ID)
	assert.Equal(t, region.Lips, entries[0].Category)
	assert.Equal(t, finish.Matte, entries[0].Finish)
	assert.InDelta(t, 55.0, entries[0].Color.A, 1e-9)
	assert.Equal(t, region.Cheeks, entries[1].Category)
	assert.Equal(t, finish.Unknown, entries[1].Finish)

	ix := NewIndex(entries)
	assert.Len(t, ix.Category(region.Lips), 1)

	n, err := store.Import(ctx, []Entry{
		{Brand: "Rouge", Product: "Satin Lip", Shade: "Berry", Category: region.Lips, Finish: finish.Shimmer, Color: colorutil.Lab{L: 35, A: 40, B: 5}},
		{ID: "p2", Brand: "Bloom", Product: "Cheek Tint", Shade: "Peach", Category: region.Cheeks, Color: colorutil.Lab{L: 72, A: 18, B: 20}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err = store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3, "p2 is updated in place")
	byID := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	assert.InDelta(t, 72.0, byID["p2"].Color.L, 1e-9)
	assert.Equal(t, finish.Shimmer, byID["rouge/satin lip/berry"].Finish)

	_, err = store.Import(ctx, []Entry{{Brand: "X"}})
	assert.Error(t, err)

	// Reconnecting runs the migration again without error.
	again, err := NewStore(ctx, connStr)
	require.NoError(t, err)
	again.Close(ctx)
}
