/*
- @Author: aztec
- @Date: 2024-01-16 15:45:41
- @Description: 构建事件数据集：日线与事件关联，计算距事件日的工作日数，关联市场收益
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package data

import (
	"fmt"
	"slices"

	"github.com/aztecqt/eventstudy/common"
	"github.com/aztecqt/eventstudy/study"
)

var logPrefix = "data"

// 距事件日超过该工作日数的行不进入数据集
const DefaultMaxOffset = 365

type BuildOptions struct {
	MaxOffset int
}

type dupKey struct {
	isin      string
	date      string
	eventDate string
}

// 针对一种事件，把日线关联到已选取的事件上
// 一条日线可以属于同一证券的多个事件
// 缺少市场收益的行被丢弃
func BuildDataset(et common.EventType, obs []common.DailyObservation, events []common.EventRecord, index common.MarketIndex, opt BuildOptions) (panel common.Panel, ok bool, msg string) {
	if opt.MaxOffset <= 0 {
		opt.MaxOffset = DefaultMaxOffset
	}

	if len(events) == 0 {
		ok = false
		msg = fmt.Sprintf("no events for %s", et)
		common.LogError(logPrefix, msg)
		return
	}

	// step 1: 事件按证券索引。复制一份，不修改调用方的事件表
	events = slices.Clone(events)
	byISIN := map[string][]*common.EventRecord{}
	for i := range events {
		ev := &events[i]
		ev.Type = et
		byISIN[ev.ISIN] = append(byISIN[ev.ISIN], ev)
	}

	// step 2: 日线展开到事件上
	seen := map[dupKey]struct{}{}
	nOutOfRange, nDup, nNoIndex := 0, 0, 0
	panel = common.Panel{}
	for _, o := range obs {
		evs, ok := byISIN[o.ISIN]
		if !ok {
			continue
		}

		for _, ev := range evs {
			raw := study.BusinessDayCount(ev.EventDate, o.Date)
			if raw < -opt.MaxOffset || raw > opt.MaxOffset {
				nOutOfRange++
				continue
			}

			dk := dupKey{isin: o.ISIN, date: common.DateKey(o.Date), eventDate: common.DateKey(ev.EventDate)}
			if _, ok := seen[dk]; ok {
				nDup++
				continue
			}
			seen[dk] = struct{}{}

			mkt, ok := index.Lookup(o.Region, o.Date)
			if !ok {
				nNoIndex++
				continue
			}

			panel = append(panel, common.PanelRow{
				Key:          common.EventKey{ISIN: o.ISIN, EventDate: ev.EventDate},
				Event:        ev,
				InfoCode:     o.InfoCode,
				FirmId:       o.FirmId,
				Date:         o.Date,
				Region:       o.Region,
				Close:        o.Close,
				Return:       o.Return,
				MarketReturn: mkt,
				Volume:       o.Volume,
				Shares:       o.Shares,
				RawOffset:    raw,
			})
		}
	}

	common.LogNormal(logPrefix, "%s: %d rows built, %d out of range, %d duplicated, %d without market index", et, len(panel), nOutOfRange, nDup, nNoIndex)
	if len(panel) == 0 {
		ok = false
		msg = fmt.Sprintf("empty dataset for %s", et)
		common.LogError(logPrefix, msg)
		return
	}

	panel = panel.SortedByDate()
	ok = true
	return
}

// 缺少日线的事件
func EventsWithoutData(panel common.Panel, events []common.EventRecord) []common.EventKey {
	have := map[common.EventKey]struct{}{}
	for _, r := range panel {
		have[r.Key] = struct{}{}
	}

	missing := []common.EventKey{}
	for _, ev := range events {
		k := common.EventKey{ISIN: ev.ISIN, EventDate: ev.EventDate}
		if _, ok := have[k]; !ok {
			missing = append(missing, k)
		}
	}
	slices.SortFunc(missing, common.CompareEventKey)
	return slices.Compact(missing)
}
