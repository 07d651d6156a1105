/*
- @Author: aztec
- @Date: 2024-01-15 18:21:49
- @Description: 数据源接口。抹平本地文件与在线数据库的差异
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package data

import (
	"context"

	"github.com/aztecqt/eventstudy/common"
	"github.com/go-gota/gota/dataframe"
)

// 日线来源
type SecuritiesSource interface {
	LoadObservations(ctx context.Context, et common.EventType) ([]common.DailyObservation, error)
}

// 事件与协变量来源。没有协变量时LoadCovariates返回nil
type EventSource interface {
	LoadEvents(ctx context.Context, et common.EventType) ([]common.EventRecord, error)
	LoadCovariates(ctx context.Context, et common.EventType) (map[string]common.Covariates, error)
}

// 市场指数来源
type IndexSource interface {
	LoadMarketIndex(ctx context.Context) (common.MarketIndex, error)
}

// 结果表输出
type Sink interface {
	Write(ctx context.Context, name string, df dataframe.DataFrame) error
}
