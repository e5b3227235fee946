package catalog

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/motorhall/motorhall/image/storage"
	"github.com/motorhall/motorhall/query"
	"github.com/motorhall/motorhall/schema"
	"github.com/sirupsen/logrus"
)

var ErrVehicleNotFound = errors.New("vehicle not found")

type Repository struct {
	db           *goqu.Database
	imageStorage *storage.Storage
}

func NewRepository(db *goqu.Database, imageStorage *storage.Storage) *Repository {
	return &Repository{
		db:           db,
		imageStorage: imageStorage,
	}
}

func (s *Repository) Vehicle(ctx context.Context, options *query.VehicleListOptions) (*schema.VehicleRow, error) {
	var row schema.VehicleRow

	success, err := options.Select(s.db).
		Select(schema.VehicleTable.All()).
		Limit(1).
		ScanStructContext(ctx, &row)
	if err != nil {
		return nil, err
	}

	if !success {
		return nil, ErrVehicleNotFound
	}

	return &row, nil
}

func (s *Repository) Vehicles(ctx context.Context, options *query.VehicleListOptions) ([]*schema.VehicleRow, error) {
	var rows []*schema.VehicleRow

	err := options.Select(s.db).
		Select(schema.VehicleTable.All()).
		Order(schema.VehicleTableDisplayOrderCol.Asc(), schema.VehicleTableIDCol.Asc()).
		ScanStructsContext(ctx, &rows)

	return rows, err
}

func (s *Repository) Count(ctx context.Context, options *query.VehicleListOptions) (int, error) {
	var count int

	success, err := options.CountSelect(s.db).Executor().ScanValContext(ctx, &count)
	if err != nil {
		return 0, err
	}

	if !success {
		return 0, ErrVehicleNotFound
	}

	return count, nil
}

// Create inserts a listing at the end of the manual ordering.
//
// The display_order value is computed as max+1 with a plain read followed by
// an insert. Concurrent creators can collide on the same value; the outcome
// is cosmetic only and matches the historical behavior of the site.
func (s *Repository) Create(ctx context.Context, row *schema.VehicleRow) (int64, error) {
	displayOrder, err := s.nextDisplayOrder(ctx)
	if err != nil {
		return 0, err
	}

	record := goqu.Record{
		schema.VehicleTableCreatedAtColName:    goqu.Func("NOW"),
		schema.VehicleTableMakeColName:         row.Make,
		schema.VehicleTableModelColName:        row.Model,
		schema.VehicleTableYearColName:         row.Year,
		schema.VehicleTableMileageColName:      row.Mileage,
		schema.VehicleTableEngineColName:       row.Engine,
		schema.VehicleTableTransmissionColName: row.Transmission,
		schema.VehicleTablePriceColName:        row.Price,
		schema.VehicleTableDescriptionColName:  row.Description,
		schema.VehicleTableImagesColName:       row.Images,
		schema.VehicleTableDisplayOrderColName: displayOrder,
		schema.VehicleTableSoldColName:         row.Sold,
	}

	if row.ConsignmentID.Valid {
		record[schema.VehicleTableConsignmentIDColName] = row.ConsignmentID
	}

	res, err := s.db.Insert(schema.VehicleTable).Rows(record).Executor().ExecContext(ctx)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (s *Repository) nextDisplayOrder(ctx context.Context) (int, error) {
	var maxOrder int

	_, err := s.db.Select(goqu.COALESCE(goqu.MAX(schema.VehicleTableDisplayOrderCol), 0)).
		From(schema.VehicleTable).
		ScanValContext(ctx, &maxOrder)
	if err != nil {
		return 0, err
	}

	return maxOrder + 1, nil
}

func (s *Repository) Update(ctx context.Context, id int64, values goqu.Record) error {
	if len(values) == 0 {
		return nil
	}

	_, err := s.db.Update(schema.VehicleTable).
		Set(values).
		Where(schema.VehicleTableIDCol.Eq(id)).
		Executor().ExecContext(ctx)

	return err
}

// Reorder rewrites display_order as 1..n following the given id sequence.
func (s *Repository) Reorder(ctx context.Context, ids []int64) error {
	for position, id := range ids {
		_, err := s.db.Update(schema.VehicleTable).
			Set(goqu.Record{schema.VehicleTableDisplayOrderColName: position + 1}).
			Where(schema.VehicleTableIDCol.Eq(id)).
			Executor().ExecContext(ctx)
		if err != nil {
			return err
		}
	}

	return nil
}

// Delete removes the listing with its analytics events and stored images,
// and detaches reviews that pointed at it.
func (s *Repository) Delete(ctx context.Context, id int64) error {
	row, err := s.Vehicle(ctx, &query.VehicleListOptions{ID: id, IncludeSold: true})
	if err != nil {
		return err
	}

	_, err = s.db.Delete(schema.AnalyticsEventTable).
		Where(schema.AnalyticsEventTableVehicleIDCol.Eq(id)).
		Executor().ExecContext(ctx)
	if err != nil {
		return err
	}

	_, err = s.db.Update(schema.ReviewTable).
		Set(goqu.Record{schema.ReviewTableVehicleIDColName: nil}).
		Where(schema.ReviewTableVehicleIDCol.Eq(id)).
		Executor().ExecContext(ctx)
	if err != nil {
		return err
	}

	if len(row.Images) > 0 {
		err = s.imageStorage.RemoveImages(ctx, row.Images)
		if err != nil {
			logrus.Errorf("failed to remove images of vehicle %d: %s", id, err.Error())
		}
	}

	_, err = s.db.Delete(schema.VehicleTable).
		Where(schema.VehicleTableIDCol.Eq(id)).
		Executor().ExecContext(ctx)

	return err
}

// SitemapItems lists identifiers of unsold vehicles for URL generation.
func (s *Repository) SitemapItems(ctx context.Context) ([]int64, error) {
	var ids []int64

	err := s.db.Select(schema.VehicleTableIDCol).
		From(schema.VehicleTable).
		Where(schema.VehicleTableSoldCol.IsFalse()).
		Order(schema.VehicleTableDisplayOrderCol.Asc()).
		ScanValsContext(ctx, &ids)

	return ids, err
}
