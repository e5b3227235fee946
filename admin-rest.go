package motorhall

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/motorhall/motorhall/analytics"
	"github.com/motorhall/motorhall/catalog"
	"github.com/motorhall/motorhall/consignments"
	"github.com/motorhall/motorhall/image/storage"
	"github.com/motorhall/motorhall/query"
	"github.com/motorhall/motorhall/reviews"
	"github.com/motorhall/motorhall/schema"
	"github.com/motorhall/motorhall/sitecfg"
	"github.com/motorhall/motorhall/util"
	"github.com/shopspring/decimal"
)

// AdminAction discriminates back-office commands. Every action is a distinct
// variant with its own payload type; unknown actions are a 400.
type AdminAction string

const (
	AdminActionVehicleCreate        AdminAction = "vehicle.create"
	AdminActionVehicleUpdate        AdminAction = "vehicle.update"
	AdminActionVehicleDelete        AdminAction = "vehicle.delete"
	AdminActionVehicleReorder       AdminAction = "vehicle.reorder"
	AdminActionReviewList           AdminAction = "review.list"
	AdminActionReviewSetVisible     AdminAction = "review.set-visible"
	AdminActionReviewDelete         AdminAction = "review.delete"
	AdminActionSiteConfigSet        AdminAction = "site-config.set"
	AdminActionSiteConfigList       AdminAction = "site-config.list"
	AdminActionConsignmentList      AdminAction = "consignment.list"
	AdminActionConsignmentDetail    AdminAction = "consignment.detail"
	AdminActionConsignmentSetStatus AdminAction = "consignment.set-status"
	AdminActionConsignmentUpdate    AdminAction = "consignment.update"
	AdminActionConsignmentConvert   AdminAction = "consignment.convert"
	AdminActionConsignmentDelete    AdminAction = "consignment.delete"
	AdminActionAnalyticsStats       AdminAction = "analytics.stats"
	AdminActionAnalyticsReset       AdminAction = "analytics.reset"
	AdminActionSignedUpload         AdminAction = "image.signed-upload"
)

const (
	uploadFileField   = "file"
	uploadMaxFileSize = 20 * 1024 * 1024
)

type AdminCommand struct {
	Action  AdminAction     `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

type VehiclePayload struct {
	Make         string          `json:"make"`
	Model        string          `json:"model"`
	Year         int             `json:"year"`
	Mileage      int             `json:"mileage"`
	Engine       string          `json:"engine"`
	Transmission string          `json:"transmission"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description"`
	Images       []string        `json:"images"`
	Sold         bool            `json:"sold"`
}

type VehicleUpdatePayload struct {
	ID           int64            `json:"id"`
	Make         *string          `json:"make"`
	Model        *string          `json:"model"`
	Year         *int             `json:"year"`
	Mileage      *int             `json:"mileage"`
	Engine       *string          `json:"engine"`
	Transmission *string          `json:"transmission"`
	Price        *decimal.Decimal `json:"price"`
	Description  *string          `json:"description"`
	Images       []string         `json:"images"`
	Sold         *bool            `json:"sold"`
}

type IDPayload struct {
	ID int64 `json:"id"`
}

type ReorderPayload struct {
	IDs []int64 `json:"ids"`
}

type ReviewListPayload struct {
	VehicleID int64 `json:"vehicle_id"`
	Limit     uint  `json:"limit"`
}

type ReviewVisiblePayload struct {
	ID      int64 `json:"id"`
	Visible bool  `json:"visible"`
}

type SiteConfigSetPayload struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type ConsignmentListPayload struct {
	Status schema.ConsignmentStatus `json:"status"`
	Kind   schema.ConsignmentKind   `json:"kind"`
	Limit  uint                     `json:"limit"`
}

// Nullable distinguishes an absent JSON field from an explicit null, so an
// update payload can clear a nullable column.
type Nullable[T any] struct {
	Defined bool
	Value   *T
}

func (s *Nullable[T]) UnmarshalJSON(data []byte) error {
	s.Defined = true

	if string(data) == "null" {
		return nil
	}

	return json.Unmarshal(data, &s.Value)
}

type ConsignmentUpdatePayload struct {
	ID                    int64                     `json:"id"`
	Status                schema.ConsignmentStatus  `json:"status"`
	InternalNotes         *string                   `json:"internal_notes"`
	AppraisalValue        Nullable[decimal.Decimal] `json:"appraisal_value"`
	MarketPriceSuggestion Nullable[decimal.Decimal] `json:"market_price_suggestion"`
	FinalAgreedPrice      Nullable[decimal.Decimal] `json:"final_agreed_price"`
	InspectionChecklist   json.RawMessage           `json:"inspection_checklist"`
}

type StatsPayload struct {
	Limit uint `json:"limit"`
}

type SignedUploadPayload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

type AdminREST struct {
	auth                   *Auth
	catalogRepository      *catalog.Repository
	consignmentsRepository *consignments.Repository
	reviewsRepository      *reviews.Repository
	analyticsRepository    *analytics.Repository
	siteConfigRepository   *sitecfg.Repository
	imageStorage           *storage.Storage
}

func NewAdminREST(
	auth *Auth,
	catalogRepository *catalog.Repository,
	consignmentsRepository *consignments.Repository,
	reviewsRepository *reviews.Repository,
	analyticsRepository *analytics.Repository,
	siteConfigRepository *sitecfg.Repository,
	imageStorage *storage.Storage,
) *AdminREST {
	return &AdminREST{
		auth:                   auth,
		catalogRepository:      catalogRepository,
		consignmentsRepository: consignmentsRepository,
		reviewsRepository:      reviewsRepository,
		analyticsRepository:    analyticsRepository,
		siteConfigRepository:   siteConfigRepository,
		imageStorage:           imageStorage,
	}
}

func (s *AdminREST) handleCommand(ctx *gin.Context) {
	var command AdminCommand

	err := ctx.BindJSON(&command)
	if err != nil {
		return
	}

	switch command.Action {
	case AdminActionVehicleCreate:
		s.handleVehicleCreate(ctx, command.Payload)
	case AdminActionVehicleUpdate:
		s.handleVehicleUpdate(ctx, command.Payload)
	case AdminActionVehicleDelete:
		s.handleVehicleDelete(ctx, command.Payload)
	case AdminActionVehicleReorder:
		s.handleVehicleReorder(ctx, command.Payload)
	case AdminActionReviewList:
		s.handleReviewList(ctx, command.Payload)
	case AdminActionReviewSetVisible:
		s.handleReviewSetVisible(ctx, command.Payload)
	case AdminActionReviewDelete:
		s.handleReviewDelete(ctx, command.Payload)
	case AdminActionSiteConfigSet:
		s.handleSiteConfigSet(ctx, command.Payload)
	case AdminActionSiteConfigList:
		s.handleSiteConfigList(ctx)
	case AdminActionConsignmentList:
		s.handleConsignmentList(ctx, command.Payload)
	case AdminActionConsignmentDetail:
		s.handleConsignmentDetail(ctx, command.Payload)
	case AdminActionConsignmentSetStatus:
		s.handleConsignmentSetStatus(ctx, command.Payload)
	case AdminActionConsignmentUpdate:
		s.handleConsignmentUpdate(ctx, command.Payload)
	case AdminActionConsignmentConvert:
		s.handleConsignmentConvert(ctx, command.Payload)
	case AdminActionConsignmentDelete:
		s.handleConsignmentDelete(ctx, command.Payload)
	case AdminActionAnalyticsStats:
		s.handleAnalyticsStats(ctx, command.Payload)
	case AdminActionAnalyticsReset:
		s.handleAnalyticsReset(ctx)
	case AdminActionSignedUpload:
		s.handleSignedUpload(ctx, command.Payload)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown action `" + string(command.Action) + "`"})
	}
}

func decodePayload[T any](ctx *gin.Context, payload json.RawMessage) (T, bool) {
	var decoded T

	if len(payload) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "payload is required"})

		return decoded, false
	}

	err := json.Unmarshal(payload, &decoded)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return decoded, false
	}

	return decoded, true
}

func (s *AdminREST) handleVehicleCreate(ctx *gin.Context, payload json.RawMessage) {
	request, ok := decodePayload[VehiclePayload](ctx, payload)
	if !ok {
		return
	}

	if request.Make == "" || request.Model == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "make and model are required"})

		return
	}

	id, err := s.catalogRepository.Create(ctx, &schema.VehicleRow{
		Make:         request.Make,
		Model:        request.Model,
		Year:         request.Year,
		Mileage:      request.Mileage,
		Engine:       request.Engine,
		Transmission: request.Transmission,
		Price:        request.Price,
		Description:  request.Description,
		Images:       schema.URLList(request.Images),
		Sold:         request.Sold,
	})
	if err != nil {
		renderError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"id": id})
}

func (s *AdminREST) handleVehicleUpdate(ctx *gin.Context, payload json.RawMessage) {
	request, ok := decodePayload[VehicleUpdatePayload](ctx, payload)
	if !ok {
		return
	}

	if request.ID == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})

		return
	}

	values := goqu.Record{}

	if request.Make != nil {
		values[schema.VehicleTableMakeColName] = *request.Make
	}

	if request.Model != nil {
		values[schema.VehicleTableModelColName] = *request.Model
	}

	if request.Year != nil {
		values[schema.VehicleTableYearColName] = *request.Year
	}

	if request.Mileage != nil {
		values[schema.VehicleTableMileageColName] = *request.Mileage
	}

	if request.Engine != nil {
		values[schema.VehicleTableEngineColName] = *request.Engine
	}

	if request.Transmission != nil {
		values[schema.VehicleTableTransmissionColName] = *request.Transmission
	}

	if request.Price != nil {
		values[schema.VehicleTablePriceColName] = *request.Price
	}

	if request.Description != nil {
		values[schema.VehicleTableDescriptionColName] = *request.Description
	}

	if request.Images != nil {
		values[schema.VehicleTableImagesColName] = schema.URLList(request.Images)
	}

	if request.Sold != nil {
		values[schema.VehicleTableSoldColName] = *request.Sold
	}

	err := s.catalogRepository.Update(ctx, request.ID, values)
	if err != nil {
		renderError(ctx, err)

		return
	}

	row, err := s.catalogRepository.Vehicle(ctx, &query.VehicleListOptions{ID: request.ID, IncludeSold: true})
	if err != nil {
		renderError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, vehicleToAPI(row))
}

func (s *AdminREST) handleVehicleDelete(ctx *gin.Context, payload json.RawMessage) {
	request, ok := decodePayload[IDPayload](ctx, payload)
	if !ok {
		return
	}

	err := s.catalogRepository.Delete(ctx, request.ID)
	if err != nil {
		renderError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *AdminREST) handleVehicleReorder(ctx *gin.Context, payload json.RawMessage) {
	request, ok := decodePayload[ReorderPayload](ctx, payload)
	if !ok {
		return
	}

	if len(request.IDs) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "ids are required"})

		return
	}

	err := s.catalogRepository.Reorder(ctx, request.IDs)
	if err != nil {
		renderError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *AdminREST) handleReviewList(ctx *gin.Context, payload json.RawMessage) {
	options := query.ReviewListOptions{}

	if len(payload) > 0 {
		request, ok := decodePayload[ReviewListPayload](ctx, payload)
		if !ok {
			return
		}

		options.VehicleID = request.VehicleID
		options.Limit = request.Limit
	}

	rows, err := s.reviewsRepository.Reviews(ctx, &options)
	if err != nil {
		renderError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"items": reviewsToAPI(rows)})
}

func (s *AdminREST) handleReviewSetVisible(ctx *gin.Context, payload json.RawMessage) {
	request, ok := decodePayload[ReviewVisiblePayload](ctx, payload)
	if !ok {
		return
	}

	err := s.reviewsRepository.SetVisible(ctx, request.ID, request.Visible)
	if err != nil {
		renderError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *AdminREST) handleReviewDelete(ctx *gin.Context, payload json.RawMessage) {
	request, ok := decodePayload[IDPayload](ctx, payload)
	if !ok {
		return
	}

	err := s.reviewsRepository.Delete(ctx, request.ID)
	if err != nil {
		renderError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *AdminREST) handleSiteConfigSet(ctx *gin.Context, payload json.RawMessage) {
	request, ok := decodePayload[SiteConfigSetPayload](ctx, payload)
	if !ok {
		return
	}

	if request.Key == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})

		return
	}

	err := s.siteConfigRepository.Set(ctx, request.Key, request.Value)
	if err != nil {
		renderError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *AdminREST) handleSiteConfigList(ctx *gin.Context) {
	rows, err := s.siteConfigRepository.All(ctx)
	if err != nil {
		renderError(ctx, err)

		return
	}

	items := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		items = append(items, gin.H{
			"key":        row.Key,
			"value":      row.Value,
			"updated_at": row.UpdatedAt,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *AdminREST) handleConsignmentList(ctx *gin.Context, payload json.RawMessage) {
	options := query.ConsignmentListOptions{}

	if len(payload) > 0 {
		request, ok := decodePayload[ConsignmentListPayload](ctx, payload)
		if !ok {
			return
		}

		options.Status = request.Status
		options.Kind = request.Kind
		options.Limit = request.Limit
	}

	rows, err := s.consignmentsRepository.Consignments(ctx, &options)
	if err != nil {
		renderError(ctx, err)

		return
	}

	count, err := s.consignmentsRepository.Count(ctx, &options)
	if err != nil {
		renderError(ctx, err)

		return
	}

	items := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		items = append(items, consignmentToAPI(row))
	}

	ctx.JSON(http.StatusOK, gin.H{"items": items, "count": count})
}

func (s *AdminREST) handleConsignmentDetail(ctx *gin.Context, payload json.RawMessage) {
	request, ok := decodePayload[IDPayload](ctx, payload)
	if !ok {
		return
	}

	row, err := s.consignmentsRepository.Consignment(ctx, &query.ConsignmentListOptions{ID: request.ID})
	if err != nil {
		renderError(ctx, err)

		return
	}

	history, err := s.consignmentsRepository.History(ctx, request.ID)
	if err != nil {
		renderError(ctx, err)

		return
	}

	result := consignmentToAPI(row)
	result["history"] = historyToAPI(history)

	ctx.JSON(http.StatusOK, result)
}

func (s *AdminREST) handleConsignmentSetStatus(ctx *gin.Context, payload json.RawMessage) {
	request, ok := decodePayload[ConsignmentUpdatePayload](ctx, payload)
	if !ok {
		return
	}

	row, err := s.consignmentsRepository.SetStatus(ctx, request.ID, request.Status, consignmentValues(request))
	if err != nil {
		renderError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, consignmentToAPI(row))
}

func (s *AdminREST) handleConsignmentUpdate(ctx *gin.Context, payload json.RawMessage) {
	request, ok := decodePayload[ConsignmentUpdatePayload](ctx, payload)
	if !ok {
		return
	}

	err := s.consignmentsRepository.Update(ctx, request.ID, consignmentValues(request))
	if err != nil {
		renderError(ctx, err)

		return
	}

	row, err := s.consignmentsRepository.Consignment(ctx, &query.ConsignmentListOptions{ID: request.ID})
	if err != nil {
		renderError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, consignmentToAPI(row))
}

func (s *AdminREST) handleConsignmentConvert(ctx *gin.Context, payload json.RawMessage) {
	request, ok := decodePayload[IDPayload](ctx, payload)
	if !ok {
		return
	}

	row, err := s.consignmentsRepository.Convert(ctx, request.ID)
	if err != nil {
		renderError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, consignmentToAPI(row))
}

func (s *AdminREST) handleConsignmentDelete(ctx *gin.Context, payload json.RawMessage) {
	request, ok := decodePayload[IDPayload](ctx, payload)
	if !ok {
		return
	}

	err := s.consignmentsRepository.Delete(ctx, request.ID)
	if err != nil {
		renderError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *AdminREST) handleAnalyticsStats(ctx *gin.Context, payload json.RawMessage) {
	limit := uint(30)

	if len(payload) > 0 {
		request, ok := decodePayload[StatsPayload](ctx, payload)
		if !ok {
			return
		}

		if request.Limit > 0 {
			limit = request.Limit
		}
	}

	vehicleCounts, err := s.analyticsRepository.VehicleCounts(ctx, limit)
	if err != nil {
		renderError(ctx, err)

		return
	}

	dayCounts, err := s.analyticsRepository.DayCounts(ctx, limit)
	if err != nil {
		renderError(ctx, err)

		return
	}

	total, err := s.analyticsRepository.Count(ctx)
	if err != nil {
		renderError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"total":    total,
		"vehicles": vehicleCounts,
		"days":     dayCounts,
	})
}

func (s *AdminREST) handleAnalyticsReset(ctx *gin.Context) {
	err := s.analyticsRepository.Reset(ctx)
	if err != nil {
		renderError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *AdminREST) handleSignedUpload(ctx *gin.Context, payload json.RawMessage) {
	request, ok := decodePayload[SignedUploadPayload](ctx, payload)
	if !ok {
		return
	}

	target, err := s.imageStorage.SignedUpload(request.Filename, request.ContentType)
	if err != nil {
		renderError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, target)
}

// handleUpload is the server-side ingest path: the admin panel posts raw
// bytes and the server downscales and re-encodes before storing. Public
// submission forms use presigned PUTs instead.
func (s *AdminREST) handleUpload(ctx *gin.Context) {
	file, err := ctx.FormFile(uploadFileField)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if file.Size > uploadMaxFileSize {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"invalid_params": gin.H{uploadFileField: map[string]string{
				"fileFilesSizeTooBig": fmt.Sprintf(
					"All files in sum should have a maximum size of '%d' but '%d' were detected",
					uploadMaxFileSize, file.Size,
				),
			}},
		})

		return
	}

	handle, err := file.Open()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}
	defer util.Close(handle)

	publicURL, err := s.imageStorage.AddImageFromReader(ctx, handle, file.Filename)
	if err != nil {
		renderError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"url": publicURL})
}

func consignmentValues(request ConsignmentUpdatePayload) goqu.Record {
	values := goqu.Record{}

	if request.InternalNotes != nil {
		values[schema.ConsignmentTableInternalNotesColName] = *request.InternalNotes
	}

	if request.AppraisalValue.Defined {
		values[schema.ConsignmentTableAppraisalValueColName] = decimalOrNull(request.AppraisalValue)
	}

	if request.MarketPriceSuggestion.Defined {
		values[schema.ConsignmentTableMarketPriceSuggestionColName] = decimalOrNull(request.MarketPriceSuggestion)
	}

	if request.FinalAgreedPrice.Defined {
		values[schema.ConsignmentTableFinalAgreedPriceColName] = decimalOrNull(request.FinalAgreedPrice)
	}

	if len(request.InspectionChecklist) > 0 {
		if string(request.InspectionChecklist) == "null" {
			values[schema.ConsignmentTableInspectionChecklistColName] = nil
		} else {
			values[schema.ConsignmentTableInspectionChecklistColName] = []byte(request.InspectionChecklist)
		}
	}

	return values
}

func decimalOrNull(value Nullable[decimal.Decimal]) any {
	if value.Value == nil {
		return nil
	}

	return *value.Value
}

func (s *AdminREST) SetupRouter(router *gin.Engine) {
	router.POST("/api/admin", s.auth.Middleware(), s.handleCommand)
	router.POST("/api/admin/upload", s.auth.Middleware(), s.handleUpload)
}
