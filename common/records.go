/*
- @Author: aztec
- @Date: 2024-02-02 09:12:40
- @Description: 日线观测、事件记录、事件面板行
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package common

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// 单只证券单日的行情记录
// Return为小数收益率（0.01=1%），缺失为NaN
type DailyObservation struct {
	ISIN     string
	InfoCode int
	FirmId   string
	Date     time.Time
	Close    float64
	Return   float64
	Volume   float64
	Shares   float64 // 流通股数
	Region   string  // 国家/地区代码（alpha-2）
}

// 事件记录
type EventRecord struct {
	ISIN      string
	EventDate time.Time
	Type      EventType
	Outcome   Outcome
	Flags     map[string]int
}

// 标志存在且等于v
func (e *EventRecord) FlagIs(name string, v int) bool {
	if e == nil || e.Flags == nil {
		return false
	}
	fv, ok := e.Flags[name]
	return ok && fv == v
}

// 按证券维度的协变量（完成情况、行业标志等）
type Covariates struct {
	ISIN    string
	Outcome Outcome
	Flags   map[string]int
}

// 将协变量合并到事件上。事件自身已有的值优先
func (e EventRecord) WithCovariates(c Covariates) EventRecord {
	out := e
	if out.Outcome == Outcome_Unknown {
		out.Outcome = c.Outcome
	}
	out.Flags = make(map[string]int, len(e.Flags)+len(c.Flags))
	for k, v := range c.Flags {
		out.Flags[k] = v
	}
	for k, v := range e.Flags {
		out.Flags[k] = v
	}
	return out
}

// 事件键：证券+事件日期
type EventKey struct {
	ISIN      string
	EventDate time.Time
}

func (k EventKey) String() string {
	return fmt.Sprintf("%s_%s", k.ISIN, DateKey(k.EventDate))
}

func CompareEventKey(a, b EventKey) int {
	if c := strings.Compare(a.ISIN, b.ISIN); c != 0 {
		return c
	}
	return a.EventDate.Compare(b.EventDate)
}

// 事件面板中的一行：一条日线观测关联到一个事件
type PanelRow struct {
	Key      EventKey
	Event    *EventRecord
	InfoCode int
	FirmId   string
	Date     time.Time
	Region   string

	Close        float64
	Return       float64
	MarketReturn float64
	Volume       float64
	Shares       float64

	// 派生指标
	VolumePct        float64
	VolumePctLog     float64
	MAReturn         float64
	MAReturnLogPct   float64
	MMPredicted      float64
	MMAbnormal       float64
	MMAbnormalLogPct float64

	RawOffset int // 距事件日的工作日数
	NewOffset int // 对齐后的交易日序号
}

// 事件面板
// 每一步变换都返回新的Panel，不修改输入
type Panel []PanelRow

func (p Panel) Clone() Panel {
	return slices.Clone(p)
}

func (p Panel) Filter(fn func(r *PanelRow) bool) Panel {
	out := make(Panel, 0, len(p))
	for i := range p {
		if fn(&p[i]) {
			out = append(out, p[i])
		}
	}
	return out
}

// 按键分组，组内保持原有顺序
func (p Panel) GroupByKey() ([]EventKey, map[EventKey]Panel) {
	keys := []EventKey{}
	groups := map[EventKey]Panel{}
	for _, r := range p {
		if _, ok := groups[r.Key]; !ok {
			keys = append(keys, r.Key)
		}
		groups[r.Key] = append(groups[r.Key], r)
	}
	slices.SortFunc(keys, CompareEventKey)
	return keys, groups
}

// 按 证券、事件日期、新序号 排序
func (p Panel) SortedByOffset() Panel {
	out := p.Clone()
	slices.SortStableFunc(out, func(a, b PanelRow) int {
		if c := CompareEventKey(a.Key, b.Key); c != 0 {
			return c
		}
		return a.NewOffset - b.NewOffset
	})
	return out
}

// 按 证券、事件日期、日期 排序
func (p Panel) SortedByDate() Panel {
	out := p.Clone()
	slices.SortStableFunc(out, func(a, b PanelRow) int {
		if c := CompareEventKey(a.Key, b.Key); c != 0 {
			return c
		}
		return a.Date.Compare(b.Date)
	})
	return out
}

func (p Panel) EventCount() int {
	keys := map[EventKey]struct{}{}
	for _, r := range p {
		keys[r.Key] = struct{}{}
	}
	return len(keys)
}

// ln(x)，x<=0时返回NaN
func SafeLog(x float64) float64 {
	if math.IsNaN(x) || x <= 0 {
		return math.NaN()
	}
	return math.Log(x)
}
