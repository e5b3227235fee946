package analytics

import (
	"database/sql"
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql" // enable mysql dialect
	_ "github.com/go-sql-driver/mysql"
	"github.com/motorhall/motorhall/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

func createRepository(t *testing.T) *Repository {
	t.Helper()

	cfg := config.LoadConfig("../")

	db, err := sql.Open("mysql", cfg.DSN)
	require.NoError(t, err)

	return NewRepository(goqu.New("mysql", db))
}

func TestReset(t *testing.T) {
	repository := createRepository(t)
	ctx := testContext(t)

	err := repository.Add(ctx, InputEvent{Name: "vehicle_view", VehicleID: 1, Path: "/vehicles/1"})
	require.NoError(t, err)

	err = repository.Reset(ctx)
	require.NoError(t, err)

	count, err := repository.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestVehicleCounts(t *testing.T) {
	t.Parallel()

	repository := createRepository(t)
	ctx := testContext(t)

	vehicleID := rand.Int63n(1_000_000_000) + 1_000_000 //nolint: gosec

	for i := 0; i < 3; i++ {
		err := repository.Add(ctx, InputEvent{Name: "vehicle_view", VehicleID: vehicleID})
		require.NoError(t, err)
	}

	counts, err := repository.VehicleCounts(ctx, 1_000_000)
	require.NoError(t, err)

	found := false

	for _, count := range counts {
		if count.VehicleID == vehicleID {
			require.Equal(t, 3, count.Count)

			found = true
		}
	}

	require.True(t, found)
}

func TestConsumeStopsWhenDeliveryChannelCloses(t *testing.T) {
	t.Parallel()

	repository := createRepository(t)
	ctx := testContext(t)

	vehicleID := rand.Int63n(1_000_000_000) + 1_000_000 //nolint: gosec

	body, err := json.Marshal(InputEvent{Name: "vehicle_view", VehicleID: vehicleID})
	require.NoError(t, err)

	msgs := make(chan amqp.Delivery, 1)
	msgs <- amqp.Delivery{ContentType: "application/json", Body: body}
	close(msgs)

	done := make(chan struct{})

	go func() {
		repository.consume(ctx, msgs, make(chan bool))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer kept running after the delivery channel closed")
	}

	counts, err := repository.VehicleCounts(ctx, 1_000_000)
	require.NoError(t, err)

	found := false

	for _, count := range counts {
		if count.VehicleID == vehicleID {
			require.Equal(t, 1, count.Count)

			found = true
		}
	}

	require.True(t, found)
}

func TestDayCounts(t *testing.T) {
	t.Parallel()

	repository := createRepository(t)
	ctx := testContext(t)

	err := repository.Add(ctx, InputEvent{Name: "page_view", Path: "/"})
	require.NoError(t, err)

	counts, err := repository.DayCounts(ctx, 31)
	require.NoError(t, err)
	require.NotEmpty(t, counts)

	total, err := repository.Count(ctx)
	require.NoError(t, err)
	require.Positive(t, total)
}
