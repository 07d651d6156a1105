/*
- @Author: aztec
- @Date: 2024-02-04 10:12:37
- @Description: 本地文件数据源
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package local

import (
	"context"
	"fmt"
	"time"

	"github.com/aztecqt/eventstudy/common"
)

// 一种事件所需的文件
type EventFiles struct {
	Observations string // 日线
	Events       string // 事件日期表。CDP发布事件可以为空，此时以Covariates作为事件样本
	Covariates   string // 协变量表，可以为空
}

// 本地csv数据源，同时提供日线、事件、指数
type Store struct {
	Files        map[common.EventType]EventFiles
	ReleaseDates map[common.EventType]time.Time // 固定事件日期

	IndexExUS string
	IndexLink string
	IndexUS   string
}

func (s *Store) files(et common.EventType) (EventFiles, error) {
	f, ok := s.Files[et]
	if !ok {
		return f, fmt.Errorf("no input files for %s", et)
	}
	return f, nil
}

func (s *Store) LoadObservations(ctx context.Context, et common.EventType) ([]common.DailyObservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.files(et)
	if err != nil {
		return nil, err
	}
	if f.Observations == "" {
		return nil, fmt.Errorf("no observation file for %s", et)
	}
	return LoadObservations(f.Observations)
}

func (s *Store) LoadEvents(ctx context.Context, et common.EventType) ([]common.EventRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.files(et)
	if err != nil {
		return nil, err
	}

	fixed := s.ReleaseDates[et]
	path := f.Events
	if path == "" {
		if fixed.IsZero() || f.Covariates == "" {
			return nil, fmt.Errorf("no event file for %s", et)
		}
		path = f.Covariates
	}
	return LoadEvents(path, et, fixed)
}

// 没有配置协变量表时返回nil
func (s *Store) LoadCovariates(ctx context.Context, et common.EventType) (map[string]common.Covariates, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.files(et)
	if err != nil {
		return nil, err
	}
	if f.Covariates == "" {
		return nil, nil
	}
	return LoadCovariates(f.Covariates)
}

func (s *Store) LoadMarketIndex(ctx context.Context) (common.MarketIndex, error) {
	if err := ctx.Err(); err != nil {
		return common.MarketIndex{}, err
	}
	return LoadMarketIndex(s.IndexExUS, s.IndexLink, s.IndexUS)
}
