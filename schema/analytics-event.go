package schema

import (
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
)

const (
	AnalyticsEventTableName             = "analytics_events"
	AnalyticsEventTableIDColName        = "id"
	AnalyticsEventTableNameColName      = "name"
	AnalyticsEventTableVehicleIDColName = "vehicle_id"
	AnalyticsEventTablePathColName      = "path"
	AnalyticsEventTableCreatedAtColName = "created_at"
)

var (
	AnalyticsEventTable             = goqu.T(AnalyticsEventTableName)
	AnalyticsEventTableIDCol        = AnalyticsEventTable.Col(AnalyticsEventTableIDColName)
	AnalyticsEventTableNameCol      = AnalyticsEventTable.Col(AnalyticsEventTableNameColName)
	AnalyticsEventTableVehicleIDCol = AnalyticsEventTable.Col(AnalyticsEventTableVehicleIDColName)
	AnalyticsEventTableCreatedAtCol = AnalyticsEventTable.Col(AnalyticsEventTableCreatedAtColName)
)

type AnalyticsEventRow struct {
	ID        int64         `db:"id"`
	Name      string        `db:"name"`
	VehicleID sql.NullInt64 `db:"vehicle_id"`
	Path      string        `db:"path"`
	CreatedAt time.Time     `db:"created_at"`
}
