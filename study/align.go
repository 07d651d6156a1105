/*
- @Author: aztec
- @Date: 2024-02-03 15:02:37
- @Description: 交易日对齐
- @在[-15,15]范围内，按日期重新编号，补齐停牌、缺失数据造成的空档
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package study

import (
	"math"
	"time"

	"github.com/aztecqt/eventstudy/common"
)

type alignDupKey struct {
	key       common.EventKey
	date      time.Time
	maLogPct  float64
	rawOffset int
}

type alignDateKey struct {
	key  common.EventKey
	date time.Time
}

// 对齐。返回新面板，按 证券、事件日期、新序号 排序
// 事件前的行按日期倒序编号并取负（-1,-2,...），事件后的行按日期正序从0编号
// 对已对齐的面板再做一次，结果不变
func Align(p common.Panel) common.Panel {
	// step 1: 范围和缺失值过滤
	sub := p.Filter(func(r *common.PanelRow) bool {
		return r.RawOffset >= AlignFrom && r.RawOffset <= AlignTo && !math.IsNaN(r.MAReturnLogPct)
	})

	// step 2: 完全重复的行保留最后一条
	lastIndex := map[alignDupKey]int{}
	for i, r := range sub {
		lastIndex[alignDupKey{r.Key, r.Date, r.MAReturnLogPct, r.RawOffset}] = i
	}
	dedup := make(common.Panel, 0, len(sub))
	for i, r := range sub {
		if lastIndex[alignDupKey{r.Key, r.Date, r.MAReturnLogPct, r.RawOffset}] == i {
			dedup = append(dedup, r)
		}
	}

	// step 3: 同一事件同一日期仍有多行（例如同一ISIN多个InfoCode），保留第一条
	seen := map[alignDateKey]bool{}
	unique := make(common.Panel, 0, len(dedup))
	for _, r := range dedup {
		dk := alignDateKey{r.Key, r.Date}
		if !seen[dk] {
			seen[dk] = true
			unique = append(unique, r)
		}
	}

	// step 4: 组内按日期编号
	keys, groups := unique.GroupByKey()
	out := make(common.Panel, 0, len(unique))
	for _, k := range keys {
		g := groups[k].SortedByDate()
		pre := g.Filter(func(r *common.PanelRow) bool { return r.RawOffset < 0 })
		post := g.Filter(func(r *common.PanelRow) bool { return r.RawOffset >= 0 })

		// 事件前：离事件最近的为-1
		for i := range pre {
			pre[i].NewOffset = -(len(pre) - i)
		}

		// 事件后：第一天为0
		for i := range post {
			post[i].NewOffset = i
		}

		out = append(out, pre...)
		out = append(out, post...)
	}

	return out.SortedByOffset()
}
