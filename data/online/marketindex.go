/*
- @Author: aztec
- @Date: 2024-02-05 14:22:51
- @Description: 从influxdb加载市场指数
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package online

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aztecqt/eventstudy/common"
	"github.com/influxdata/influxdb/client/v2"
	"github.com/influxdata/influxdb/models"
)

type InfluxConfig struct {
	Addr     string `toml:"addr"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`

	ExUSMeasurement string `toml:"exus_measurement"` // tag: fic 或 region，field: ret
	USMeasurement   string `toml:"us_measurement"`   // field: ret
	CodeTag         string `toml:"code_tag"`
	Field           string `toml:"field"`
}

func (c *InfluxConfig) fillDefaults() {
	if c.CodeTag == "" {
		c.CodeTag = "fic"
	}
	if c.Field == "" {
		c.Field = "ret"
	}
}

// 市场指数在influx中按measurement存放，ExUS以国家代码为tag
type InfluxIndexSource struct {
	cfg  InfluxConfig
	conn client.Client
	link map[string]string
}

// link为代码对照表（fic->Region），可以为nil
func NewInfluxIndexSource(cfg InfluxConfig, link map[string]string) (*InfluxIndexSource, error) {
	cfg.fillDefaults()
	conn, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:     cfg.Addr,
		Username: cfg.User,
		Password: cfg.Password,
		Timeout:  time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("connect influx %s: %w", cfg.Addr, err)
	}
	return &InfluxIndexSource{cfg: cfg, conn: conn, link: link}, nil
}

func (s *InfluxIndexSource) Close() error {
	return s.conn.Close()
}

func (s *InfluxIndexSource) LoadMarketIndex(ctx context.Context) (common.MarketIndex, error) {
	mi := common.NewMarketIndex()

	if s.cfg.ExUSMeasurement != "" {
		cmd := fmt.Sprintf(`SELECT "%s" FROM "%s" GROUP BY "%s"`, s.cfg.Field, s.cfg.ExUSMeasurement, s.cfg.CodeTag)
		rows, err := s.query(ctx, cmd)
		if err != nil {
			return mi, err
		}
		if err := fillIndex(mi, rows, s.cfg.CodeTag); err != nil {
			return mi, err
		}
		mi = mi.WithRegions(s.link)
	}

	if s.cfg.USMeasurement != "" {
		cmd := fmt.Sprintf(`SELECT "%s" FROM "%s"`, s.cfg.Field, s.cfg.USMeasurement)
		rows, err := s.query(ctx, cmd)
		if err != nil {
			return mi, err
		}
		if err := fillIndex(mi, rows, ""); err != nil {
			return mi, err
		}
	}

	if mi.Empty() {
		return mi, fmt.Errorf("no market index in influx database %s", s.cfg.Database)
	}
	common.LogNormal(logPrefix, "market index loaded from influx, %d ex-us regions, %d us days", len(mi.ExUS), len(mi.US))
	return mi, nil
}

func (s *InfluxIndexSource) query(ctx context.Context, cmd string) ([]models.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := s.conn.Query(client.NewQuery(cmd, s.cfg.Database, ""))
	if err != nil {
		return nil, fmt.Errorf("influx query %q: %w", cmd, err)
	}
	if resp.Error() != nil {
		return nil, fmt.Errorf("influx query %q: %w", cmd, resp.Error())
	}

	rows := []models.Row{}
	for _, r := range resp.Results {
		rows = append(rows, r.Series...)
	}
	return rows, nil
}

// 把查询结果写入指数。codeTag为空时写入US序列
// 每个序列第0列为time（RFC3339），第1列为收益
func fillIndex(mi common.MarketIndex, rows []models.Row, codeTag string) error {
	for _, row := range rows {
		code := ""
		if codeTag != "" {
			code = strings.TrimSpace(row.Tags[codeTag])
			if code == "" {
				return fmt.Errorf("series %s has no %s tag", row.Name, codeTag)
			}
		}

		for _, v := range row.Values {
			if len(v) < 2 {
				continue
			}
			ts, ok := v[0].(string)
			if !ok {
				continue
			}
			t, err := time.Parse(time.RFC3339, ts)
			if err != nil {
				return fmt.Errorf("series %s: bad time %q", row.Name, ts)
			}
			ret, err := toFloat(v[1])
			if err != nil {
				return fmt.Errorf("series %s at %s: %w", row.Name, ts, err)
			}

			if codeTag == "" {
				mi.SetUS(common.DateOf(t), ret)
			} else {
				mi.SetExUS(code, common.DateOf(t), ret)
			}
		}
	}
	return nil
}
