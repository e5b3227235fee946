package schema

import (
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
)

const (
	VehicleTableName                 = "vehicles"
	VehicleTableIDColName            = "id"
	VehicleTableCreatedAtColName     = "created_at"
	VehicleTableMakeColName          = "make"
	VehicleTableModelColName         = "model"
	VehicleTableYearColName          = "year"
	VehicleTableMileageColName       = "mileage"
	VehicleTableEngineColName        = "engine"
	VehicleTableTransmissionColName  = "transmission"
	VehicleTablePriceColName         = "price"
	VehicleTableDescriptionColName   = "description"
	VehicleTableImagesColName        = "images"
	VehicleTableDisplayOrderColName  = "display_order"
	VehicleTableSoldColName          = "sold"
	VehicleTableConsignmentIDColName = "consignment_id"
)

var (
	VehicleTable                 = goqu.T(VehicleTableName)
	VehicleTableIDCol            = VehicleTable.Col(VehicleTableIDColName)
	VehicleTableCreatedAtCol     = VehicleTable.Col(VehicleTableCreatedAtColName)
	VehicleTableMakeCol          = VehicleTable.Col(VehicleTableMakeColName)
	VehicleTableModelCol         = VehicleTable.Col(VehicleTableModelColName)
	VehicleTableYearCol          = VehicleTable.Col(VehicleTableYearColName)
	VehicleTablePriceCol         = VehicleTable.Col(VehicleTablePriceColName)
	VehicleTableDisplayOrderCol  = VehicleTable.Col(VehicleTableDisplayOrderColName)
	VehicleTableSoldCol          = VehicleTable.Col(VehicleTableSoldColName)
	VehicleTableConsignmentIDCol = VehicleTable.Col(VehicleTableConsignmentIDColName)
)

type VehicleRow struct {
	ID            int64           `db:"id"`
	CreatedAt     time.Time       `db:"created_at"`
	Make          string          `db:"make"`
	Model         string          `db:"model"`
	Year          int             `db:"year"`
	Mileage       int             `db:"mileage"`
	Engine        string          `db:"engine"`
	Transmission  string          `db:"transmission"`
	Price         decimal.Decimal `db:"price"`
	Description   string          `db:"description"`
	Images        URLList         `db:"images"`
	DisplayOrder  int             `db:"display_order"`
	Sold          bool            `db:"sold"`
	ConsignmentID sql.NullInt64   `db:"consignment_id"`
}
