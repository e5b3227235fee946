package schema

import (
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
)

type ConsignmentStatus string

const (
	ConsignmentStatusPending   ConsignmentStatus = "pending"
	ConsignmentStatusInReview  ConsignmentStatus = "in_review"
	ConsignmentStatusApproved  ConsignmentStatus = "approved"
	ConsignmentStatusPublished ConsignmentStatus = "published"
	ConsignmentStatusSold      ConsignmentStatus = "sold"
	ConsignmentStatusRejected  ConsignmentStatus = "rejected"
)

// IsValid reports enum membership only. The transition graph is deliberately
// not enforced server-side: any status may follow any other.
func (s ConsignmentStatus) IsValid() bool {
	switch s {
	case ConsignmentStatusPending, ConsignmentStatusInReview, ConsignmentStatusApproved,
		ConsignmentStatusPublished, ConsignmentStatusSold, ConsignmentStatusRejected:
		return true
	}

	return false
}

type ConsignmentKind string

const (
	ConsignmentKindConsignment ConsignmentKind = "consignment"
	ConsignmentKindDirectSale  ConsignmentKind = "direct_sale"
)

const (
	ConsignmentTableName                         = "consignments"
	ConsignmentTableIDColName                    = "id"
	ConsignmentTableCreatedAtColName             = "created_at"
	ConsignmentTableKindColName                  = "kind"
	ConsignmentTableMakeColName                  = "make"
	ConsignmentTableModelColName                 = "model"
	ConsignmentTableYearColName                  = "year"
	ConsignmentTableMileageColName               = "mileage"
	ConsignmentTableEngineColName                = "engine"
	ConsignmentTableTransmissionColName          = "transmission"
	ConsignmentTableRequestedPriceColName        = "requested_price"
	ConsignmentTableExtraInfoColName             = "extra_info"
	ConsignmentTableImagesColName                = "images"
	ConsignmentTableOwnerNameColName             = "owner_name"
	ConsignmentTableOwnerPhoneColName            = "owner_phone"
	ConsignmentTableOwnerEmailColName            = "owner_email"
	ConsignmentTableStatusColName                = "status"
	ConsignmentTableInternalNotesColName         = "internal_notes"
	ConsignmentTableAppraisalValueColName        = "appraisal_value"
	ConsignmentTableMarketPriceSuggestionColName = "market_price_suggestion"
	ConsignmentTableFinalAgreedPriceColName      = "final_agreed_price"
	ConsignmentTableInspectionChecklistColName   = "inspection_checklist"
	ConsignmentTableVehicleIDColName             = "vehicle_id"
)

var (
	ConsignmentTable             = goqu.T(ConsignmentTableName)
	ConsignmentTableIDCol        = ConsignmentTable.Col(ConsignmentTableIDColName)
	ConsignmentTableCreatedAtCol = ConsignmentTable.Col(ConsignmentTableCreatedAtColName)
	ConsignmentTableKindCol      = ConsignmentTable.Col(ConsignmentTableKindColName)
	ConsignmentTableStatusCol    = ConsignmentTable.Col(ConsignmentTableStatusColName)
	ConsignmentTableVehicleIDCol = ConsignmentTable.Col(ConsignmentTableVehicleIDColName)
)

type ConsignmentRow struct {
	ID                    int64               `db:"id"`
	CreatedAt             time.Time           `db:"created_at"`
	Kind                  ConsignmentKind     `db:"kind"`
	Make                  string              `db:"make"`
	Model                 string              `db:"model"`
	Year                  int                 `db:"year"`
	Mileage               int                 `db:"mileage"`
	Engine                string              `db:"engine"`
	Transmission          string              `db:"transmission"`
	RequestedPrice        decimal.Decimal     `db:"requested_price"`
	ExtraInfo             string              `db:"extra_info"`
	Images                URLList             `db:"images"`
	OwnerName             string              `db:"owner_name"`
	OwnerPhone            string              `db:"owner_phone"`
	OwnerEmail            string              `db:"owner_email"`
	Status                ConsignmentStatus   `db:"status"`
	InternalNotes         string              `db:"internal_notes"`
	AppraisalValue        decimal.NullDecimal `db:"appraisal_value"`
	MarketPriceSuggestion decimal.NullDecimal `db:"market_price_suggestion"`
	FinalAgreedPrice      decimal.NullDecimal `db:"final_agreed_price"`
	InspectionChecklist   NullJSON            `db:"inspection_checklist"`
	VehicleID             sql.NullInt64       `db:"vehicle_id"`
}
