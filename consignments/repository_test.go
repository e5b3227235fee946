package consignments

import (
	"database/sql"
	"testing"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql" // enable mysql dialect
	_ "github.com/go-sql-driver/mysql"
	"github.com/motorhall/motorhall/catalog"
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

	goquDB := goqu.New("mysql", db)

	imageStorage, err := storage.NewStorage(cfg.FileStorage)
	require.NoError(t, err)

	return NewRepository(goquDB, catalog.NewRepository(goquDB, imageStorage), imageStorage)
}

func createConsignment(t *testing.T, repository *Repository) int64 {
	t.Helper()

	id, err := repository.Create(testContext(t), &schema.ConsignmentRow{
		Make:           "Toyota",
		Model:          "Corolla",
		Year:           2019,
		Mileage:        50000,
		RequestedPrice: decimal.NewFromInt(15000),
		OwnerName:      "Jordan Reyes",
		OwnerPhone:     "+1 555 0100",
	})
	require.NoError(t, err)

	return id
}

func TestCreateStartsPending(t *testing.T) {
	t.Parallel()

	repository := createRepository(t)
	ctx := testContext(t)

	id, err := repository.Create(ctx, &schema.ConsignmentRow{
		Make:      "Honda",
		Model:     "Civic",
		OwnerName: "Sam Ellis",
		Status:    schema.ConsignmentStatusApproved,
	})
	require.NoError(t, err)

	row, err := repository.Consignment(ctx, &query.ConsignmentListOptions{ID: id})
	require.NoError(t, err)
	require.Equal(t, schema.ConsignmentStatusPending, row.Status)
	require.Equal(t, schema.ConsignmentKindConsignment, row.Kind)

	history, err := repository.History(ctx, id)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestStatusChangeWritesExactlyOneHistoryRow(t *testing.T) {
	t.Parallel()

	repository := createRepository(t)
	ctx := testContext(t)

	id := createConsignment(t, repository)

	row, err := repository.SetStatus(ctx, id, schema.ConsignmentStatusInReview, goqu.Record{})
	require.NoError(t, err)
	require.Equal(t, schema.ConsignmentStatusInReview, row.Status)

	history, err := repository.History(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, schema.ConsignmentStatusPending, history[0].OldStatus)
	require.Equal(t, schema.ConsignmentStatusInReview, history[0].NewStatus)

	// resubmitting the same status is a no-op for the audit trail
	_, err = repository.SetStatus(ctx, id, schema.ConsignmentStatusInReview, goqu.Record{})
	require.NoError(t, err)

	history, err = repository.History(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 1)

	_, err = repository.SetStatus(ctx, id, schema.ConsignmentStatusApproved, goqu.Record{})
	require.NoError(t, err)

	history, err = repository.History(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, schema.ConsignmentStatusInReview, history[1].OldStatus)
	require.Equal(t, schema.ConsignmentStatusApproved, history[1].NewStatus)
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	repository := createRepository(t)

	id := createConsignment(t, repository)

	_, err := repository.SetStatus(testContext(t), id, "archived", goqu.Record{})
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSetStatusAppliesWorkflowFields(t *testing.T) {
	t.Parallel()

	repository := createRepository(t)
	ctx := testContext(t)

	id := createConsignment(t, repository)

	appraisal := decimal.NewFromInt(13500)

	row, err := repository.SetStatus(ctx, id, schema.ConsignmentStatusInReview, goqu.Record{
		schema.ConsignmentTableAppraisalValueColName: appraisal,
		schema.ConsignmentTableInternalNotesColName:  "clean title",
	})
	require.NoError(t, err)
	require.True(t, row.AppraisalValue.Valid)
	require.True(t, appraisal.Equal(row.AppraisalValue.Decimal))
	require.Equal(t, "clean title", row.InternalNotes)
}

func TestConvertCreatesListingAndPublishes(t *testing.T) {
	t.Parallel()

	repository := createRepository(t)
	ctx := testContext(t)

	id := createConsignment(t, repository)

	final := decimal.NewFromInt(14200)

	_, err := repository.SetStatus(ctx, id, schema.ConsignmentStatusApproved, goqu.Record{
		schema.ConsignmentTableFinalAgreedPriceColName: final,
	})
	require.NoError(t, err)

	row, err := repository.Convert(ctx, id)
	require.NoError(t, err)
	require.Equal(t, schema.ConsignmentStatusPublished, row.Status)
	require.True(t, row.VehicleID.Valid)

	vehicle, err := repository.catalogRepository.Vehicle(ctx, &query.VehicleListOptions{
		ID:          row.VehicleID.Int64,
		IncludeSold: true,
	})
	require.NoError(t, err)
	require.Equal(t, "Toyota", vehicle.Make)
	require.Equal(t, "Corolla", vehicle.Model)
	require.True(t, final.Equal(vehicle.Price))
	require.True(t, vehicle.ConsignmentID.Valid)
	require.Equal(t, id, vehicle.ConsignmentID.Int64)

	history, err := repository.History(ctx, id)
	require.NoError(t, err)
	require.Equal(t, schema.ConsignmentStatusPublished, history[len(history)-1].NewStatus)

	_, err = repository.Convert(ctx, id)
	require.ErrorIs(t, err, ErrAlreadyConverted)
}

func TestDeleteCascadesHistory(t *testing.T) {
	t.Parallel()

	repository := createRepository(t)
	ctx := testContext(t)

	id := createConsignment(t, repository)

	_, err := repository.SetStatus(ctx, id, schema.ConsignmentStatusRejected, goqu.Record{})
	require.NoError(t, err)

	err = repository.Delete(ctx, id)
	require.NoError(t, err)

	_, err = repository.Consignment(ctx, &query.ConsignmentListOptions{ID: id})
	require.ErrorIs(t, err, ErrConsignmentNotFound)

	history, err := repository.History(ctx, id)
	require.NoError(t, err)
	require.Empty(t, history)
}
