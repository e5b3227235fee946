package sitecfg

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/motorhall/motorhall/schema"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var ErrKeyNotFound = errors.New("site config key not found")

const (
	cachePrefix = "sitecfg:"
	cacheTTL    = 5 * time.Minute
)

// Repository stores site-wide key/value configuration (financing terms,
// contact blocks) with a redis cache in front of the table. Cache failures
// fall through to the database.
type Repository struct {
	db    *goqu.Database
	redis *redis.Client
}

func NewRepository(db *goqu.Database, redisClient *redis.Client) *Repository {
	return &Repository{
		db:    db,
		redis: redisClient,
	}
}

func (s *Repository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, cachePrefix+key).Result()
		if err == nil {
			return json.RawMessage(cached), nil
		}

		if !errors.Is(err, redis.Nil) {
			logrus.Warnf("site config cache read failed: %s", err.Error())
		}
	}

	var value json.RawMessage

	success, err := s.db.Select(schema.SiteConfigTableValueCol).
		From(schema.SiteConfigTable).
		Where(schema.SiteConfigTableKeyCol.Eq(key)).
		ScanValContext(ctx, &value)
	if err != nil {
		return nil, err
	}

	if !success {
		return nil, ErrKeyNotFound
	}

	if s.redis != nil {
		err = s.redis.Set(ctx, cachePrefix+key, string(value), cacheTTL).Err()
		if err != nil {
			logrus.Warnf("site config cache write failed: %s", err.Error())
		}
	}

	return value, nil
}

func (s *Repository) Set(ctx context.Context, key string, value json.RawMessage) error {
	_, err := s.db.Insert(schema.SiteConfigTable).
		Rows(goqu.Record{
			schema.SiteConfigTableKeyColName:       key,
			schema.SiteConfigTableValueColName:     []byte(value),
			schema.SiteConfigTableUpdatedAtColName: goqu.Func("NOW"),
		}).
		OnConflict(goqu.DoUpdate(schema.SiteConfigTableKeyColName, goqu.Record{
			schema.SiteConfigTableValueColName:     []byte(value),
			schema.SiteConfigTableUpdatedAtColName: goqu.Func("NOW"),
		})).
		Executor().ExecContext(ctx)
	if err != nil {
		return err
	}

	if s.redis != nil {
		err = s.redis.Del(ctx, cachePrefix+key).Err()
		if err != nil {
			logrus.Warnf("site config cache invalidation failed: %s", err.Error())
		}
	}

	return nil
}

func (s *Repository) All(ctx context.Context) ([]schema.SiteConfigRow, error) {
	var rows []schema.SiteConfigRow

	err := s.db.Select(schema.SiteConfigTable.All()).
		From(schema.SiteConfigTable).
		Order(schema.SiteConfigTableKeyCol.Asc()).
		ScanStructsContext(ctx, &rows)

	return rows, err
}
