package query

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/motorhall/motorhall/schema"
)

type ReviewListOptions struct {
	ID          int64
	VehicleID   int64
	OnlyVisible bool
	Limit       uint
}

func (s *ReviewListOptions) Clone() *ReviewListOptions {
	if s == nil {
		return nil
	}

	clone := *s

	return &clone
}

func (s *ReviewListOptions) Select(db *goqu.Database) *goqu.SelectDataset {
	return s.apply(db.Select().From(schema.ReviewTable))
}

// CountSelect counts the full match, ignoring any row limit.
func (s *ReviewListOptions) CountSelect(db *goqu.Database) *goqu.SelectDataset {
	options := s.Clone()
	options.Limit = 0

	return options.Select(db).Select(goqu.COUNT(goqu.Star()))
}

func (s *ReviewListOptions) apply(sqSelect *goqu.SelectDataset) *goqu.SelectDataset {
	if s.ID != 0 {
		sqSelect = sqSelect.Where(schema.ReviewTableIDCol.Eq(s.ID))
	}

	if s.VehicleID != 0 {
		sqSelect = sqSelect.Where(schema.ReviewTableVehicleIDCol.Eq(s.VehicleID))
	}

	if s.OnlyVisible {
		sqSelect = sqSelect.Where(schema.ReviewTableVisibleCol.IsTrue())
	}

	if s.Limit > 0 {
		sqSelect = sqSelect.Limit(s.Limit)
	}

	return sqSelect
}
