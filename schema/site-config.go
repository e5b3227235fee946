package schema

import (
	"encoding/json"
	"time"

	"github.com/doug-martin/goqu/v9"
)

const (
	SiteConfigTableName             = "site_config"
	SiteConfigTableKeyColName       = "key"
	SiteConfigTableValueColName     = "value"
	SiteConfigTableUpdatedAtColName = "updated_at"
)

var (
	SiteConfigTable         = goqu.T(SiteConfigTableName)
	SiteConfigTableKeyCol   = SiteConfigTable.Col(SiteConfigTableKeyColName)
	SiteConfigTableValueCol = SiteConfigTable.Col(SiteConfigTableValueColName)
)

type SiteConfigRow struct {
	Key       string          `db:"key"`
	Value     json.RawMessage `db:"value"`
	UpdatedAt time.Time       `db:"updated_at"`
}
