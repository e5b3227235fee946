package motorhall

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/motorhall/motorhall/catalog"
	"github.com/motorhall/motorhall/consignments"
	"github.com/motorhall/motorhall/email"
	"github.com/motorhall/motorhall/query"
	"github.com/motorhall/motorhall/reviews"
	"github.com/motorhall/motorhall/schema"
	"github.com/motorhall/motorhall/sitecfg"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const siteConfigFinancingKey = "financing"

type PublicAction string

const (
	PublicActionReviewSubmit      PublicAction = "review.submit"
	PublicActionConsignmentSubmit PublicAction = "consignment.submit"
	PublicActionDirectSaleSubmit  PublicAction = "direct-sale.submit"
)

type PublicCommand struct {
	Action  PublicAction    `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// Website is a honeypot. Browsers never show it, submissions that fill it
// are accepted and dropped.
type ReviewSubmitPayload struct {
	Author    string `json:"author"`
	Rating    int    `json:"rating"`
	Message   string `json:"message"`
	VehicleID int64  `json:"vehicle_id"`
	Website   string `json:"website"`
}

type IntakeSubmitPayload struct {
	Make           string          `json:"make"`
	Model          string          `json:"model"`
	Year           int             `json:"year"`
	Mileage        int             `json:"mileage"`
	Engine         string          `json:"engine"`
	Transmission   string          `json:"transmission"`
	RequestedPrice decimal.Decimal `json:"requested_price"`
	ExtraInfo      string          `json:"extra_info"`
	Images         []string        `json:"images"`
	OwnerName      string          `json:"owner_name"`
	OwnerPhone     string          `json:"owner_phone"`
	OwnerEmail     string          `json:"owner_email"`
	Website        string          `json:"website"`
}

type PublicREST struct {
	catalogRepository      *catalog.Repository
	consignmentsRepository *consignments.Repository
	reviewsRepository      *reviews.Repository
	siteConfigRepository   *sitecfg.Repository
	intakeNotice           *email.IntakeNotice
}

func NewPublicREST(
	catalogRepository *catalog.Repository,
	consignmentsRepository *consignments.Repository,
	reviewsRepository *reviews.Repository,
	siteConfigRepository *sitecfg.Repository,
	intakeNotice *email.IntakeNotice,
) *PublicREST {
	return &PublicREST{
		catalogRepository:      catalogRepository,
		consignmentsRepository: consignmentsRepository,
		reviewsRepository:      reviewsRepository,
		siteConfigRepository:   siteConfigRepository,
		intakeNotice:           intakeNotice,
	}
}

func (s *PublicREST) handleGet(ctx *gin.Context) {
	rows, err := s.reviewsRepository.Reviews(ctx, &query.ReviewListOptions{OnlyVisible: true})
	if err != nil {
		renderError(ctx, err)

		return
	}

	financing, err := s.siteConfigRepository.Get(ctx, siteConfigFinancingKey)
	if err != nil && !errors.Is(err, sitecfg.ErrKeyNotFound) {
		renderError(ctx, err)

		return
	}

	if financing == nil {
		financing = json.RawMessage("null")
	}

	ctx.JSON(http.StatusOK, gin.H{
		"reviews":   reviewsToAPI(rows),
		"financing": financing,
	})
}

func (s *PublicREST) handleVehicles(ctx *gin.Context) {
	options := query.VehicleListOptions{
		Make:     ctx.Query("make"),
		YearFrom: queryInt(ctx, "year_from"),
		YearTo:   queryInt(ctx, "year_to"),
	}

	if value := ctx.Query("price_from"); value != "" {
		options.PriceFrom, _ = decimal.NewFromString(value)
	}

	if value := ctx.Query("price_to"); value != "" {
		options.PriceTo, _ = decimal.NewFromString(value)
	}

	if limit := queryInt(ctx, "limit"); limit > 0 {
		options.Limit = uint(limit)
	}

	rows, err := s.catalogRepository.Vehicles(ctx, &options)
	if err != nil {
		renderError(ctx, err)

		return
	}

	count, err := s.catalogRepository.Count(ctx, &options)
	if err != nil {
		renderError(ctx, err)

		return
	}

	items := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		items = append(items, vehicleToAPI(row))
	}

	ctx.JSON(http.StatusOK, gin.H{"items": items, "count": count})
}

func (s *PublicREST) handleVehicle(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	row, err := s.catalogRepository.Vehicle(ctx, &query.VehicleListOptions{ID: id, IncludeSold: true})
	if err != nil {
		renderError(ctx, err)

		return
	}

	vehicleReviews, err := s.reviewsRepository.Reviews(ctx, &query.ReviewListOptions{
		VehicleID:   row.ID,
		OnlyVisible: true,
	})
	if err != nil {
		renderError(ctx, err)

		return
	}

	result := vehicleToAPI(row)
	result["reviews"] = reviewsToAPI(vehicleReviews)

	ctx.JSON(http.StatusOK, result)
}

func (s *PublicREST) handlePost(ctx *gin.Context) {
	var command PublicCommand

	err := ctx.BindJSON(&command)
	if err != nil {
		return
	}

	switch command.Action {
	case PublicActionReviewSubmit:
		s.handleReviewSubmit(ctx, command.Payload)
	case PublicActionConsignmentSubmit:
		s.handleIntakeSubmit(ctx, command.Payload, schema.ConsignmentKindConsignment)
	case PublicActionDirectSaleSubmit:
		s.handleIntakeSubmit(ctx, command.Payload, schema.ConsignmentKindDirectSale)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown action `" + string(command.Action) + "`"})
	}
}

func (s *PublicREST) handleReviewSubmit(ctx *gin.Context, payload json.RawMessage) {
	request, ok := decodePayload[ReviewSubmitPayload](ctx, payload)
	if !ok {
		return
	}

	if request.Website != "" {
		ctx.JSON(http.StatusOK, gin.H{"ok": true})

		return
	}

	problems := make(map[string]string)

	if strings.TrimSpace(request.Author) == "" {
		problems["author"] = "author is required"
	}

	if strings.TrimSpace(request.Message) == "" {
		problems["message"] = "message is required"
	}

	if len(problems) > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"invalid_params": problems})

		return
	}

	row := schema.ReviewRow{
		Author:  request.Author,
		Rating:  request.Rating,
		Message: request.Message,
	}
	if request.VehicleID != 0 {
		row.VehicleID.Int64, row.VehicleID.Valid = request.VehicleID, true
	}

	_, err := s.reviewsRepository.Create(ctx, &row)
	if err != nil {
		renderError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *PublicREST) handleIntakeSubmit(ctx *gin.Context, payload json.RawMessage, kind schema.ConsignmentKind) {
	request, ok := decodePayload[IntakeSubmitPayload](ctx, payload)
	if !ok {
		return
	}

	if request.Website != "" {
		ctx.JSON(http.StatusOK, gin.H{"ok": true})

		return
	}

	problems := make(map[string]string)

	if strings.TrimSpace(request.Make) == "" {
		problems["make"] = "make is required"
	}

	if strings.TrimSpace(request.Model) == "" {
		problems["model"] = "model is required"
	}

	if strings.TrimSpace(request.OwnerName) == "" {
		problems["owner_name"] = "owner name is required"
	}

	if strings.TrimSpace(request.OwnerPhone) == "" && strings.TrimSpace(request.OwnerEmail) == "" {
		problems["owner_phone"] = "phone or email is required"
	}

	if len(problems) > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"invalid_params": problems})

		return
	}

	row := schema.ConsignmentRow{
		Kind:           kind,
		Make:           request.Make,
		Model:          request.Model,
		Year:           request.Year,
		Mileage:        request.Mileage,
		Engine:         request.Engine,
		Transmission:   request.Transmission,
		RequestedPrice: request.RequestedPrice,
		ExtraInfo:      request.ExtraInfo,
		Images:         schema.URLList(request.Images),
		OwnerName:      request.OwnerName,
		OwnerPhone:     request.OwnerPhone,
		OwnerEmail:     request.OwnerEmail,
	}

	id, err := s.consignmentsRepository.Create(ctx, &row)
	if err != nil {
		renderError(ctx, err)

		return
	}

	row.ID = id

	err = s.intakeNotice.Notify(&row)
	if err != nil {
		logrus.Errorf("intake notice for consignment %d: %v", id, err)
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "id": id})
}

func queryInt(ctx *gin.Context, name string) int {
	value, _ := strconv.Atoi(ctx.Query(name))

	return value
}

func (s *PublicREST) SetupRouter(router *gin.Engine) {
	router.GET("/api/public", s.handleGet)
	router.POST("/api/public", s.handlePost)
	router.GET("/api/vehicles", s.handleVehicles)
	router.GET("/api/vehicles/:id", s.handleVehicle)
}
