package motorhall

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/motorhall/motorhall/catalog"
	"github.com/motorhall/motorhall/consignments"
	"github.com/motorhall/motorhall/image/storage"
	"github.com/motorhall/motorhall/reviews"
	"github.com/motorhall/motorhall/schema"
	"github.com/motorhall/motorhall/sitecfg"
)

// renderError maps repository errors onto the HTTP taxonomy: 404 for
// missing rows, 400 for caller mistakes, 500 with the message for the rest.
func renderError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrVehicleNotFound),
		errors.Is(err, consignments.ErrConsignmentNotFound),
		errors.Is(err, reviews.ErrReviewNotFound),
		errors.Is(err, sitecfg.ErrKeyNotFound),
		errors.Is(err, sql.ErrNoRows):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, consignments.ErrAlreadyConverted),
		errors.Is(err, consignments.ErrInvalidStatus),
		errors.Is(err, storage.ErrUnsupportedContentType):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func vehicleToAPI(row *schema.VehicleRow) gin.H {
	result := gin.H{
		"id":            row.ID,
		"created_at":    row.CreatedAt,
		"make":          row.Make,
		"model":         row.Model,
		"year":          row.Year,
		"mileage":       row.Mileage,
		"engine":        row.Engine,
		"transmission":  row.Transmission,
		"price":         row.Price,
		"description":   row.Description,
		"images":        row.Images,
		"cover":         row.Images.Cover(),
		"display_order": row.DisplayOrder,
		"sold":          row.Sold,
	}

	if row.ConsignmentID.Valid {
		result["consignment_id"] = row.ConsignmentID.Int64
	}

	return result
}

func consignmentToAPI(row *schema.ConsignmentRow) gin.H {
	result := gin.H{
		"id":              row.ID,
		"created_at":      row.CreatedAt,
		"kind":            row.Kind,
		"make":            row.Make,
		"model":           row.Model,
		"year":            row.Year,
		"mileage":         row.Mileage,
		"engine":          row.Engine,
		"transmission":    row.Transmission,
		"requested_price": row.RequestedPrice,
		"extra_info":      row.ExtraInfo,
		"images":          row.Images,
		"owner_name":      row.OwnerName,
		"owner_phone":     row.OwnerPhone,
		"owner_email":     row.OwnerEmail,
		"status":          row.Status,
		"internal_notes":  row.InternalNotes,
	}

	if row.AppraisalValue.Valid {
		result["appraisal_value"] = row.AppraisalValue.Decimal
	}

	if row.MarketPriceSuggestion.Valid {
		result["market_price_suggestion"] = row.MarketPriceSuggestion.Decimal
	}

	if row.FinalAgreedPrice.Valid {
		result["final_agreed_price"] = row.FinalAgreedPrice.Decimal
	}

	if row.InspectionChecklist.Valid {
		result["inspection_checklist"] = row.InspectionChecklist.JSON
	}

	if row.VehicleID.Valid {
		result["vehicle_id"] = row.VehicleID.Int64
	}

	return result
}

func reviewToAPI(row *schema.ReviewRow) gin.H {
	result := gin.H{
		"id":         row.ID,
		"created_at": row.CreatedAt,
		"author":     row.Author,
		"rating":     row.Rating,
		"message":    row.Message,
		"visible":    row.Visible,
	}

	if row.VehicleID.Valid {
		result["vehicle_id"] = row.VehicleID.Int64
	}

	return result
}

func reviewsToAPI(rows []*schema.ReviewRow) []gin.H {
	result := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		result = append(result, reviewToAPI(row))
	}

	return result
}

func historyToAPI(rows []schema.ConsignmentHistoryRow) []gin.H {
	result := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		result = append(result, gin.H{
			"old_status": row.OldStatus,
			"new_status": row.NewStatus,
			"created_at": row.CreatedAt,
		})
	}

	return result
}
