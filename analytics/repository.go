package analytics

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/doug-martin/goqu/v9"
	"github.com/motorhall/motorhall/schema"
	"github.com/motorhall/motorhall/util"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Repository Main Object.
type Repository struct {
	db *goqu.Database
}

// InputEvent is the wire shape shared by the HTTP endpoint and the AMQP
// queue.
type InputEvent struct {
	Name      string `json:"name"`
	VehicleID int64  `json:"vehicle_id"`
	Path      string `json:"path"`
}

type VehicleCount struct {
	VehicleID int64 `db:"vehicle_id" json:"vehicle_id"`
	Count     int   `db:"count"      json:"count"`
}

type DayCount struct {
	Day   string `db:"day"   json:"day"`
	Count int    `db:"count" json:"count"`
}

// NewRepository constructor.
func NewRepository(db *goqu.Database) *Repository {
	return &Repository{db: db}
}

func (s *Repository) Add(ctx context.Context, event InputEvent) error {
	record := goqu.Record{
		schema.AnalyticsEventTableNameColName:      event.Name,
		schema.AnalyticsEventTablePathColName:      event.Path,
		schema.AnalyticsEventTableCreatedAtColName: goqu.Func("NOW"),
	}

	if event.VehicleID > 0 {
		record[schema.AnalyticsEventTableVehicleIDColName] = event.VehicleID
	}

	_, err := s.db.Insert(schema.AnalyticsEventTable).Rows(record).Executor().ExecContext(ctx)

	return err
}

// Listen consumes events from an AMQP queue and stores them. Malformed
// messages are logged and skipped.
func (s *Repository) Listen(ctx context.Context, url string, queue string, quitChan chan bool) error {
	conn, err := util.ConnectRabbitMQ(url)
	if err != nil {
		logrus.Error(err)

		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer util.Close(ch)

	inQ, err := ch.QueueDeclare(
		queue, // name
		false, // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(
		inQ.Name, // queue
		"",       // consumer
		true,     // auto-ack
		false,    // exclusive
		false,    // no-local
		false,    // no-wait
		nil,      // args
	)
	if err != nil {
		return err
	}

	s.consume(ctx, msgs, quitChan)

	logrus.Info("Disconnecting RabbitMQ")

	return conn.Close()
}

// consume drains deliveries until quit is signalled or the channel is closed
// by a dropped connection.
func (s *Repository) consume(ctx context.Context, msgs <-chan amqp.Delivery, quitChan chan bool) {
	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				logrus.Warn("delivery channel closed")

				return
			}

			if d.ContentType != "application/json" {
				logrus.Errorf("unexpected mime `%s`", d.ContentType)

				continue
			}

			var event InputEvent

			err := json.Unmarshal(d.Body, &event)
			if err != nil {
				logrus.Errorf("failed to parse json `%v`: %s", err, d.Body)

				continue
			}

			err = s.Add(ctx, event)
			if err != nil {
				logrus.Error(err.Error())
			}

		case <-quitChan:
			return
		}
	}
}

func (s *Repository) VehicleCounts(ctx context.Context, limit uint) ([]VehicleCount, error) {
	rows := make([]VehicleCount, 0)

	const countAlias = "count"
	err := s.db.Select(
		schema.AnalyticsEventTableVehicleIDCol,
		goqu.COUNT(goqu.Star()).As(countAlias),
	).
		From(schema.AnalyticsEventTable).
		Where(schema.AnalyticsEventTableVehicleIDCol.IsNotNull()).
		GroupBy(schema.AnalyticsEventTableVehicleIDCol).
		Order(goqu.C(countAlias).Desc()).
		Limit(limit).
		ScanStructsContext(ctx, &rows)

	return rows, err
}

func (s *Repository) DayCounts(ctx context.Context, limit uint) ([]DayCount, error) {
	rows := make([]DayCount, 0)

	const (
		dayAlias   = "day"
		countAlias = "count"
	)

	err := s.db.Select(
		goqu.Func("DATE_FORMAT", schema.AnalyticsEventTableCreatedAtCol, "%Y-%m-%d").As(dayAlias),
		goqu.COUNT(goqu.Star()).As(countAlias),
	).
		From(schema.AnalyticsEventTable).
		GroupBy(goqu.Func("DATE_FORMAT", schema.AnalyticsEventTableCreatedAtCol, "%Y-%m-%d")).
		Order(goqu.C(dayAlias).Desc()).
		Limit(limit).
		ScanStructsContext(ctx, &rows)

	return rows, err
}

func (s *Repository) Count(ctx context.Context) (int, error) {
	var count int

	success, err := s.db.Select(goqu.COUNT(goqu.Star())).
		From(schema.AnalyticsEventTable).
		ScanValContext(ctx, &count)
	if err != nil {
		return 0, err
	}

	if !success {
		return 0, sql.ErrNoRows
	}

	return count, nil
}

// Reset removes all collected data.
func (s *Repository) Reset(ctx context.Context) error {
	_, err := s.db.Delete(schema.AnalyticsEventTable).Executor().ExecContext(ctx)

	return err
}
