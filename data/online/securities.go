/*
- @Author: aztec
- @Date: 2024-02-05 16:03:18
- @Description: 从postgres加载日线
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package online

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/aztecqt/eventstudy/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresConfig struct {
	DSN    string            `toml:"dsn"`
	Tables map[string]string `toml:"tables"` // 事件类型->日线表名
}

// 每种事件的日线存放在一张表中，列名与csv一致
type PostgresSecuritiesSource struct {
	pool   *pgxpool.Pool
	tables map[string]string
}

func NewPostgresSecuritiesSource(ctx context.Context, cfg PostgresConfig) (*PostgresSecuritiesSource, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &PostgresSecuritiesSource{pool: pool, tables: cfg.Tables}, nil
}

func (s *PostgresSecuritiesSource) Close() {
	s.pool.Close()
}

func observationQuery(table string) string {
	return fmt.Sprintf(`SELECT "ISIN"::text, "InfoCode"::bigint, "id"::text, "MarketDate"::date, "close"::float8, "ret"::text, "Volume"::float8, "numshrs"::float8, "Region"::text
FROM %s ORDER BY "ISIN", "MarketDate"`, pgx.Identifier(strings.Split(table, ".")).Sanitize())
}

// 一行查询结果，NULL为nil
type observationRow struct {
	isin     *string
	infoCode *int64
	firmId   *string
	date     *time.Time
	close    *float64
	ret      *string
	volume   *float64
	shares   *float64
	region   *string
}

func (s *PostgresSecuritiesSource) LoadObservations(ctx context.Context, et common.EventType) ([]common.DailyObservation, error) {
	table, ok := s.tables[string(et)]
	if !ok || table == "" {
		return nil, fmt.Errorf("no observation table for %s", et)
	}

	rows, err := s.pool.Query(ctx, observationQuery(table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	obs := []common.DailyObservation{}
	nMalformed, nMissingKey := 0, 0
	for rows.Next() {
		r := observationRow{}
		if err := rows.Scan(&r.isin, &r.infoCode, &r.firmId, &r.date, &r.close, &r.ret, &r.volume, &r.shares, &r.region); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}

		o, err := r.toObservation()
		if err != nil {
			if errors.Is(err, common.ErrMalformedReturn) {
				if nMalformed < 10 {
					common.LogError(logPrefix, "%s: %s", table, err.Error())
				}
				nMalformed++
			} else {
				nMissingKey++
			}
			continue
		}
		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}

	if nMalformed > 0 || nMissingKey > 0 {
		common.LogError(logPrefix, "%s: %d malformed return rows, %d rows without isin/date dropped", table, nMalformed, nMissingKey)
	}
	common.LogNormal(logPrefix, "%s: %d observations loaded", table, len(obs))
	return obs, nil
}

var errMissingKey = errors.New("missing isin or date")

func (r observationRow) toObservation() (common.DailyObservation, error) {
	o := common.DailyObservation{}
	if r.isin == nil || strings.TrimSpace(*r.isin) == "" || r.date == nil {
		return o, errMissingKey
	}
	o.ISIN = strings.TrimSpace(*r.isin)
	o.Date = common.DateOf(*r.date)

	o.Return = math.NaN()
	if r.ret != nil {
		v, err := common.ParseReturn(*r.ret)
		if err != nil {
			return o, fmt.Errorf("%s %s: %w", o.ISIN, common.DateKey(o.Date), err)
		}
		o.Return = v
	}

	if r.infoCode != nil {
		o.InfoCode = int(*r.infoCode)
	}
	if r.firmId != nil {
		o.FirmId = strings.TrimSpace(*r.firmId)
	}
	if r.region != nil {
		o.Region = strings.ToUpper(strings.TrimSpace(*r.region))
	}
	o.Close = floatOrNaN(r.close)
	o.Volume = floatOrNaN(r.volume)
	o.Shares = floatOrNaN(r.shares)
	return o, nil
}

func floatOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func (s *PostgresSecuritiesSource) String() string {
	tables := []string{}
	for et, t := range s.tables {
		tables = append(tables, et+"="+t)
	}
	slices.Sort(tables)
	return "postgres(" + strings.Join(tables, ",") + ")"
}
