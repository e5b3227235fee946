package query

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/motorhall/motorhall/schema"
	"github.com/shopspring/decimal"
)

type VehicleListOptions struct {
	ID            int64
	ConsignmentID int64
	Make          string
	YearFrom      int
	YearTo        int
	PriceFrom     decimal.Decimal
	PriceTo       decimal.Decimal
	IncludeSold   bool
	Limit         uint
}

func (s *VehicleListOptions) Clone() *VehicleListOptions {
	if s == nil {
		return nil
	}

	clone := *s

	return &clone
}

func (s *VehicleListOptions) Select(db *goqu.Database) *goqu.SelectDataset {
	return s.apply(db.Select().From(schema.VehicleTable))
}

// CountSelect counts the full match, ignoring any row limit.
func (s *VehicleListOptions) CountSelect(db *goqu.Database) *goqu.SelectDataset {
	options := s.Clone()
	options.Limit = 0

	return options.Select(db).Select(goqu.COUNT(goqu.Star()))
}

func (s *VehicleListOptions) apply(sqSelect *goqu.SelectDataset) *goqu.SelectDataset {
	if s.ID != 0 {
		sqSelect = sqSelect.Where(schema.VehicleTableIDCol.Eq(s.ID))
	}

	if s.ConsignmentID != 0 {
		sqSelect = sqSelect.Where(schema.VehicleTableConsignmentIDCol.Eq(s.ConsignmentID))
	}

	if s.Make != "" {
		sqSelect = sqSelect.Where(schema.VehicleTableMakeCol.Eq(s.Make))
	}

	if s.YearFrom > 0 {
		sqSelect = sqSelect.Where(schema.VehicleTableYearCol.Gte(s.YearFrom))
	}

	if s.YearTo > 0 {
		sqSelect = sqSelect.Where(schema.VehicleTableYearCol.Lte(s.YearTo))
	}

	if s.PriceFrom.IsPositive() {
		sqSelect = sqSelect.Where(schema.VehicleTablePriceCol.Gte(s.PriceFrom))
	}

	if s.PriceTo.IsPositive() {
		sqSelect = sqSelect.Where(schema.VehicleTablePriceCol.Lte(s.PriceTo))
	}

	if !s.IncludeSold {
		sqSelect = sqSelect.Where(schema.VehicleTableSoldCol.IsFalse())
	}

	if s.Limit > 0 {
		sqSelect = sqSelect.Limit(s.Limit)
	}

	return sqSelect
}
