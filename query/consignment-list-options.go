package query

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/motorhall/motorhall/schema"
)

type ConsignmentListOptions struct {
	ID         int64
	Status     schema.ConsignmentStatus
	Kind       schema.ConsignmentKind
	HasVehicle bool
	NoVehicle  bool
	Limit      uint
}

func (s *ConsignmentListOptions) Clone() *ConsignmentListOptions {
	if s == nil {
		return nil
	}

	clone := *s

	return &clone
}

func (s *ConsignmentListOptions) Select(db *goqu.Database) *goqu.SelectDataset {
	return s.apply(db.Select().From(schema.ConsignmentTable))
}

// CountSelect counts the full match, ignoring any row limit.
func (s *ConsignmentListOptions) CountSelect(db *goqu.Database) *goqu.SelectDataset {
	options := s.Clone()
	options.Limit = 0

	return options.Select(db).Select(goqu.COUNT(goqu.Star()))
}

func (s *ConsignmentListOptions) apply(sqSelect *goqu.SelectDataset) *goqu.SelectDataset {
	if s.ID != 0 {
		sqSelect = sqSelect.Where(schema.ConsignmentTableIDCol.Eq(s.ID))
	}

	if s.Status != "" {
		sqSelect = sqSelect.Where(schema.ConsignmentTableStatusCol.Eq(s.Status))
	}

	if s.Kind != "" {
		sqSelect = sqSelect.Where(schema.ConsignmentTableKindCol.Eq(s.Kind))
	}

	if s.HasVehicle {
		sqSelect = sqSelect.Where(schema.ConsignmentTableVehicleIDCol.IsNotNull())
	}

	if s.NoVehicle {
		sqSelect = sqSelect.Where(schema.ConsignmentTableVehicleIDCol.IsNull())
	}

	if s.Limit > 0 {
		sqSelect = sqSelect.Limit(s.Limit)
	}

	return sqSelect
}
