package reviews

import (
	"context"
	"errors"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/motorhall/motorhall/query"
	"github.com/motorhall/motorhall/schema"
)

var ErrReviewNotFound = errors.New("review not found")

const (
	minRating = 1
	maxRating = 5
)

type Repository struct {
	db *goqu.Database
}

func NewRepository(db *goqu.Database) *Repository {
	return &Repository{db: db}
}

// Create stores a public submission. Reviews stay hidden until a moderator
// flips the visible flag.
func (s *Repository) Create(ctx context.Context, row *schema.ReviewRow) (int64, error) {
	rating := row.Rating
	if rating < minRating {
		rating = minRating
	}

	if rating > maxRating {
		rating = maxRating
	}

	record := goqu.Record{
		schema.ReviewTableCreatedAtColName: goqu.Func("NOW"),
		schema.ReviewTableAuthorColName:    strings.TrimSpace(row.Author),
		schema.ReviewTableRatingColName:    rating,
		schema.ReviewTableMessageColName:   strings.TrimSpace(row.Message),
		schema.ReviewTableVisibleColName:   false,
	}

	if row.VehicleID.Valid {
		record[schema.ReviewTableVehicleIDColName] = row.VehicleID
	}

	res, err := s.db.Insert(schema.ReviewTable).Rows(record).Executor().ExecContext(ctx)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (s *Repository) Review(ctx context.Context, options *query.ReviewListOptions) (*schema.ReviewRow, error) {
	var row schema.ReviewRow

	success, err := options.Select(s.db).
		Select(schema.ReviewTable.All()).
		Limit(1).
		ScanStructContext(ctx, &row)
	if err != nil {
		return nil, err
	}

	if !success {
		return nil, ErrReviewNotFound
	}

	return &row, nil
}

func (s *Repository) Reviews(ctx context.Context, options *query.ReviewListOptions) ([]*schema.ReviewRow, error) {
	var rows []*schema.ReviewRow

	err := options.Select(s.db).
		Select(schema.ReviewTable.All()).
		Order(schema.ReviewTableCreatedAtCol.Desc()).
		ScanStructsContext(ctx, &rows)

	return rows, err
}

func (s *Repository) SetVisible(ctx context.Context, id int64, visible bool) error {
	_, err := s.db.Update(schema.ReviewTable).
		Set(goqu.Record{schema.ReviewTableVisibleColName: visible}).
		Where(schema.ReviewTableIDCol.Eq(id)).
		Executor().ExecContext(ctx)

	return err
}

func (s *Repository) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Delete(schema.ReviewTable).
		Where(schema.ReviewTableIDCol.Eq(id)).
		Executor().ExecContext(ctx)

	return err
}
