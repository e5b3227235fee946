package schema

import (
	"time"

	"github.com/doug-martin/goqu/v9"
)

const (
	ConsignmentHistoryTableName                 = "consignment_history"
	ConsignmentHistoryTableIDColName            = "id"
	ConsignmentHistoryTableConsignmentIDColName = "consignment_id"
	ConsignmentHistoryTableOldStatusColName     = "old_status"
	ConsignmentHistoryTableNewStatusColName     = "new_status"
	ConsignmentHistoryTableCreatedAtColName     = "created_at"
)

var (
	ConsignmentHistoryTable                 = goqu.T(ConsignmentHistoryTableName)
	ConsignmentHistoryTableIDCol            = ConsignmentHistoryTable.Col(ConsignmentHistoryTableIDColName)
	ConsignmentHistoryTableConsignmentIDCol = ConsignmentHistoryTable.Col(ConsignmentHistoryTableConsignmentIDColName)
	ConsignmentHistoryTableCreatedAtCol     = ConsignmentHistoryTable.Col(ConsignmentHistoryTableCreatedAtColName)
)

type ConsignmentHistoryRow struct {
	ID            int64             `db:"id"`
	ConsignmentID int64             `db:"consignment_id"`
	OldStatus     ConsignmentStatus `db:"old_status"`
	NewStatus     ConsignmentStatus `db:"new_status"`
	CreatedAt     time.Time         `db:"created_at"`
}
