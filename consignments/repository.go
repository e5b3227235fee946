package consignments

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/motorhall/motorhall/catalog"
	"github.com/motorhall/motorhall/image/storage"
	"github.com/motorhall/motorhall/query"
	"github.com/motorhall/motorhall/schema"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrConsignmentNotFound = errors.New("consignment not found")
	ErrAlreadyConverted    = errors.New("consignment already has a listing")
	ErrInvalidStatus       = errors.New("invalid consignment status")
)

type Repository struct {
	db                *goqu.Database
	catalogRepository *catalog.Repository
	imageStorage      *storage.Storage
}

func NewRepository(
	db *goqu.Database, catalogRepository *catalog.Repository, imageStorage *storage.Storage,
) *Repository {
	return &Repository{
		db:                db,
		catalogRepository: catalogRepository,
		imageStorage:      imageStorage,
	}
}

// Create stores a public intake submission. Status always starts at pending,
// whatever the caller put in the row.
func (s *Repository) Create(ctx context.Context, row *schema.ConsignmentRow) (int64, error) {
	kind := row.Kind
	if kind == "" {
		kind = schema.ConsignmentKindConsignment
	}

	res, err := s.db.Insert(schema.ConsignmentTable).Rows(goqu.Record{
		schema.ConsignmentTableCreatedAtColName:      goqu.Func("NOW"),
		schema.ConsignmentTableKindColName:           kind,
		schema.ConsignmentTableMakeColName:           row.Make,
		schema.ConsignmentTableModelColName:          row.Model,
		schema.ConsignmentTableYearColName:           row.Year,
		schema.ConsignmentTableMileageColName:        row.Mileage,
		schema.ConsignmentTableEngineColName:         row.Engine,
		schema.ConsignmentTableTransmissionColName:   row.Transmission,
		schema.ConsignmentTableRequestedPriceColName: row.RequestedPrice,
		schema.ConsignmentTableExtraInfoColName:      row.ExtraInfo,
		schema.ConsignmentTableImagesColName:         row.Images,
		schema.ConsignmentTableOwnerNameColName:      row.OwnerName,
		schema.ConsignmentTableOwnerPhoneColName:     row.OwnerPhone,
		schema.ConsignmentTableOwnerEmailColName:     row.OwnerEmail,
		schema.ConsignmentTableStatusColName:         schema.ConsignmentStatusPending,
	}).Executor().ExecContext(ctx)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (s *Repository) Consignment(
	ctx context.Context, options *query.ConsignmentListOptions,
) (*schema.ConsignmentRow, error) {
	var row schema.ConsignmentRow

	success, err := options.Select(s.db).
		Select(schema.ConsignmentTable.All()).
		Limit(1).
		ScanStructContext(ctx, &row)
	if err != nil {
		return nil, err
	}

	if !success {
		return nil, ErrConsignmentNotFound
	}

	return &row, nil
}

func (s *Repository) Consignments(
	ctx context.Context, options *query.ConsignmentListOptions,
) ([]*schema.ConsignmentRow, error) {
	var rows []*schema.ConsignmentRow

	err := options.Select(s.db).
		Select(schema.ConsignmentTable.All()).
		Order(schema.ConsignmentTableCreatedAtCol.Desc()).
		ScanStructsContext(ctx, &rows)

	return rows, err
}

func (s *Repository) Count(ctx context.Context, options *query.ConsignmentListOptions) (int, error) {
	var count int

	success, err := options.CountSelect(s.db).Executor().ScanValContext(ctx, &count)
	if err != nil {
		return 0, err
	}

	if !success {
		return 0, sql.ErrNoRows
	}

	return count, nil
}

func (s *Repository) Status(ctx context.Context, id int64) (schema.ConsignmentStatus, error) {
	var status schema.ConsignmentStatus

	success, err := s.db.Select(schema.ConsignmentTableStatusCol).
		From(schema.ConsignmentTable).
		Where(schema.ConsignmentTableIDCol.Eq(id)).
		ScanValContext(ctx, &status)
	if err != nil {
		return "", err
	}

	if !success {
		return "", ErrConsignmentNotFound
	}

	return status, nil
}

// SetStatus applies a status change together with any co-supplied field
// updates and returns the updated row.
//
// One history row is appended per effective change; resubmitting the current
// status appends nothing. Any status may follow any other: the UI constrains
// the offered choices, the backend does not validate the transition graph.
// A failed history append is logged and the update still goes ahead; the two
// writes are not tied into a transaction.
func (s *Repository) SetStatus(
	ctx context.Context, id int64, status schema.ConsignmentStatus, values goqu.Record,
) (*schema.ConsignmentRow, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	currentStatus, err := s.Status(ctx, id)
	if err != nil {
		return nil, err
	}

	if status != currentStatus {
		err = s.appendHistory(ctx, id, currentStatus, status)
		if err != nil {
			logrus.Errorf("failed to append status history for consignment %d: %s", id, err.Error())
		}
	}

	record := goqu.Record{schema.ConsignmentTableStatusColName: status}
	for key, value := range values {
		record[key] = value
	}

	_, err = s.db.Update(schema.ConsignmentTable).
		Set(record).
		Where(schema.ConsignmentTableIDCol.Eq(id)).
		Executor().ExecContext(ctx)
	if err != nil {
		return nil, err
	}

	return s.Consignment(ctx, &query.ConsignmentListOptions{ID: id})
}

// Update applies field changes without touching the status.
func (s *Repository) Update(ctx context.Context, id int64, values goqu.Record) error {
	if len(values) == 0 {
		return nil
	}

	_, err := s.db.Update(schema.ConsignmentTable).
		Set(values).
		Where(schema.ConsignmentTableIDCol.Eq(id)).
		Executor().ExecContext(ctx)

	return err
}

func (s *Repository) appendHistory(
	ctx context.Context, id int64, oldStatus, newStatus schema.ConsignmentStatus,
) error {
	_, err := s.db.Insert(schema.ConsignmentHistoryTable).Rows(goqu.Record{
		schema.ConsignmentHistoryTableConsignmentIDColName: id,
		schema.ConsignmentHistoryTableOldStatusColName:     oldStatus,
		schema.ConsignmentHistoryTableNewStatusColName:     newStatus,
		schema.ConsignmentHistoryTableCreatedAtColName:     goqu.Func("NOW"),
	}).Executor().ExecContext(ctx)

	return err
}

func (s *Repository) History(ctx context.Context, id int64) ([]schema.ConsignmentHistoryRow, error) {
	var rows []schema.ConsignmentHistoryRow

	err := s.db.Select(schema.ConsignmentHistoryTable.All()).
		From(schema.ConsignmentHistoryTable).
		Where(schema.ConsignmentHistoryTableConsignmentIDCol.Eq(id)).
		Order(schema.ConsignmentHistoryTableIDCol.Asc()).
		ScanStructsContext(ctx, &rows)

	return rows, err
}

// Convert creates a catalog listing from an approved consignment and links
// it back. The listing is inserted first and the consignment only updated
// afterwards, so a failed insert leaves the consignment untouched. A
// consignment is linked to at most one listing.
func (s *Repository) Convert(ctx context.Context, id int64) (*schema.ConsignmentRow, error) {
	row, err := s.Consignment(ctx, &query.ConsignmentListOptions{ID: id})
	if err != nil {
		return nil, err
	}

	if row.VehicleID.Valid {
		return nil, ErrAlreadyConverted
	}

	vehicleID, err := s.catalogRepository.Create(ctx, &schema.VehicleRow{
		Make:          row.Make,
		Model:         row.Model,
		Year:          row.Year,
		Mileage:       row.Mileage,
		Engine:        row.Engine,
		Transmission:  row.Transmission,
		Price:         listingPrice(row),
		Description:   row.ExtraInfo,
		Images:        row.Images,
		ConsignmentID: sql.NullInt64{Int64: id, Valid: true},
	})
	if err != nil {
		return nil, err
	}

	return s.SetStatus(ctx, id, schema.ConsignmentStatusPublished, goqu.Record{
		schema.ConsignmentTableVehicleIDColName: vehicleID,
	})
}

// Delete removes the consignment with its history rows and stored images.
func (s *Repository) Delete(ctx context.Context, id int64) error {
	row, err := s.Consignment(ctx, &query.ConsignmentListOptions{ID: id})
	if err != nil {
		return err
	}

	if len(row.Images) > 0 {
		err = s.imageStorage.RemoveImages(ctx, row.Images)
		if err != nil {
			logrus.Errorf("failed to remove images of consignment %d: %s", id, err.Error())
		}
	}

	_, err = s.db.Delete(schema.ConsignmentHistoryTable).
		Where(schema.ConsignmentHistoryTableConsignmentIDCol.Eq(id)).
		Executor().ExecContext(ctx)
	if err != nil {
		return err
	}

	_, err = s.db.Delete(schema.ConsignmentTable).
		Where(schema.ConsignmentTableIDCol.Eq(id)).
		Executor().ExecContext(ctx)

	return err
}

func listingPrice(row *schema.ConsignmentRow) decimal.Decimal {
	if row.FinalAgreedPrice.Valid {
		return row.FinalAgreedPrice.Decimal
	}

	if row.MarketPriceSuggestion.Valid {
		return row.MarketPriceSuggestion.Decimal
	}

	return row.RequestedPrice
}
