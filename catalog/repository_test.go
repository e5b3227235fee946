package catalog

import (
	"database/sql"
	"testing"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql" // enable mysql dialect
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/motorhall/motorhall/config"
	"github.com/motorhall/motorhall/image/storage"
	"github.com/motorhall/motorhall/query"
	"github.com/motorhall/motorhall/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func createRepository(t *testing.T) *Repository {
	t.Helper()

	cfg := config.LoadConfig("../")

	db, err := sql.Open("mysql", cfg.DSN)
	require.NoError(t, err)

	imageStorage, err := storage.NewStorage(cfg.FileStorage)
	require.NoError(t, err)

	return NewRepository(goqu.New("mysql", db), imageStorage)
}

func createVehicle(t *testing.T, repository *Repository, row schema.VehicleRow) int64 {
	t.Helper()

	id, err := repository.Create(testContext(t), &row)
	require.NoError(t, err)

	return id
}

func TestDisplayOrderIncrements(t *testing.T) {
	t.Parallel()

	repository := createRepository(t)
	ctx := testContext(t)

	firstID := createVehicle(t, repository, schema.VehicleRow{Make: "Mazda", Model: "3"})
	secondID := createVehicle(t, repository, schema.VehicleRow{Make: "Mazda", Model: "6"})

	first, err := repository.Vehicle(ctx, &query.VehicleListOptions{ID: firstID, IncludeSold: true})
	require.NoError(t, err)

	second, err := repository.Vehicle(ctx, &query.VehicleListOptions{ID: secondID, IncludeSold: true})
	require.NoError(t, err)

	require.Equal(t, first.DisplayOrder+1, second.DisplayOrder)
}

func TestReorder(t *testing.T) {
	t.Parallel()

	repository := createRepository(t)
	ctx := testContext(t)

	makeName := "reorder-" + uuid.NewString()

	ids := []int64{
		createVehicle(t, repository, schema.VehicleRow{Make: makeName, Model: "A"}),
		createVehicle(t, repository, schema.VehicleRow{Make: makeName, Model: "B"}),
		createVehicle(t, repository, schema.VehicleRow{Make: makeName, Model: "C"}),
	}

	reversed := []int64{ids[2], ids[1], ids[0]}

	err := repository.Reorder(ctx, reversed)
	require.NoError(t, err)

	rows, err := repository.Vehicles(ctx, &query.VehicleListOptions{Make: makeName, IncludeSold: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// listing is ordered by display_order, so it must follow the new order
	for idx, row := range rows {
		require.Equal(t, reversed[idx], row.ID)
	}
}

func TestSoldHiddenUnlessRequested(t *testing.T) {
	t.Parallel()

	repository := createRepository(t)
	ctx := testContext(t)

	makeName := "sold-" + uuid.NewString()

	createVehicle(t, repository, schema.VehicleRow{Make: makeName, Model: "A"})
	createVehicle(t, repository, schema.VehicleRow{Make: makeName, Model: "B", Sold: true})

	rows, err := repository.Vehicles(ctx, &query.VehicleListOptions{Make: makeName})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "A", rows[0].Model)

	count, err := repository.Count(ctx, &query.VehicleListOptions{Make: makeName, IncludeSold: true})
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestFilters(t *testing.T) {
	t.Parallel()

	repository := createRepository(t)
	ctx := testContext(t)

	makeName := "filter-" + uuid.NewString()

	createVehicle(t, repository, schema.VehicleRow{
		Make: makeName, Model: "Old", Year: 2005, Price: decimal.NewFromInt(4000),
	})
	matchID := createVehicle(t, repository, schema.VehicleRow{
		Make: makeName, Model: "New", Year: 2020, Price: decimal.NewFromInt(18000),
	})

	rows, err := repository.Vehicles(ctx, &query.VehicleListOptions{
		Make:      makeName,
		YearFrom:  2010,
		PriceFrom: decimal.NewFromInt(10000),
		PriceTo:   decimal.NewFromInt(20000),
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, matchID, rows[0].ID)
}

func TestLimitCapsListingButNotCount(t *testing.T) {
	t.Parallel()

	repository := createRepository(t)
	ctx := testContext(t)

	makeName := "limit-" + uuid.NewString()

	for _, model := range []string{"A", "B", "C"} {
		createVehicle(t, repository, schema.VehicleRow{Make: makeName, Model: model})
	}

	options := query.VehicleListOptions{Make: makeName, IncludeSold: true, Limit: 2}

	rows, err := repository.Vehicles(ctx, &options)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	count, err := repository.Count(ctx, &options)
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestDeleteDetachesReviewsAndEvents(t *testing.T) {
	t.Parallel()

	repository := createRepository(t)
	ctx := testContext(t)

	id := createVehicle(t, repository, schema.VehicleRow{Make: "Kia", Model: "Rio"})

	err := repository.Delete(ctx, id)
	require.NoError(t, err)

	_, err = repository.Vehicle(ctx, &query.VehicleListOptions{ID: id, IncludeSold: true})
	require.ErrorIs(t, err, ErrVehicleNotFound)
}
