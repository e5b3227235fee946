package schema

import (
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
)

const (
	ReviewTableName             = "reviews"
	ReviewTableIDColName        = "id"
	ReviewTableCreatedAtColName = "created_at"
	ReviewTableAuthorColName    = "author"
	ReviewTableRatingColName    = "rating"
	ReviewTableMessageColName   = "message"
	ReviewTableVehicleIDColName = "vehicle_id"
	ReviewTableVisibleColName   = "visible"
)

var (
	ReviewTable             = goqu.T(ReviewTableName)
	ReviewTableIDCol        = ReviewTable.Col(ReviewTableIDColName)
	ReviewTableCreatedAtCol = ReviewTable.Col(ReviewTableCreatedAtColName)
	ReviewTableVehicleIDCol = ReviewTable.Col(ReviewTableVehicleIDColName)
	ReviewTableVisibleCol   = ReviewTable.Col(ReviewTableVisibleColName)
)

type ReviewRow struct {
	ID        int64         `db:"id"`
	CreatedAt time.Time     `db:"created_at"`
	Author    string        `db:"author"`
	Rating    int           `db:"rating"`
	Message   string        `db:"message"`
	VehicleID sql.NullInt64 `db:"vehicle_id"`
	Visible   bool          `db:"visible"`
}
