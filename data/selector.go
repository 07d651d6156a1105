/*
- @Author: aztec
- @Date: 2024-01-15 17:58:57
- @Description: 事件选取器。根据一系列条件，从事件表中选取参与研究的事件
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package data

import (
	"slices"
	"strings"

	"github.com/aztecqt/eventstudy/common"
)

// 剔除排除列表中的证券
func ExcludeISINs(events []common.EventRecord, exclude []string) []common.EventRecord {
	if len(exclude) == 0 {
		return events
	}

	set := map[string]struct{}{}
	for _, isin := range exclude {
		set[strings.TrimSpace(isin)] = struct{}{}
	}

	out := make([]common.EventRecord, 0, len(events))
	for _, ev := range events {
		if _, ok := set[ev.ISIN]; !ok {
			out = append(out, ev)
		}
	}
	common.LogNormal(logPrefix, "exclusion list removed %d events", len(events)-len(out))
	return out
}

// 每个证券只保留最早的事件
func FirstEventPerISIN(events []common.EventRecord) []common.EventRecord {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b common.EventRecord) int {
		if c := strings.Compare(a.ISIN, b.ISIN); c != 0 {
			return c
		}
		return a.EventDate.Compare(b.EventDate)
	})

	out := make([]common.EventRecord, 0, len(sorted))
	for i, ev := range sorted {
		if i > 0 && sorted[i-1].ISIN == ev.ISIN {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// 合并协变量
// inner为true时，没有协变量的事件被丢弃；否则保留原样
func JoinCovariates(events []common.EventRecord, covs map[string]common.Covariates, inner bool) []common.EventRecord {
	if covs == nil {
		return events
	}

	out := make([]common.EventRecord, 0, len(events))
	nMissing := 0
	for _, ev := range events {
		if c, ok := covs[ev.ISIN]; ok {
			out = append(out, ev.WithCovariates(c))
		} else {
			nMissing++
			if !inner {
				out = append(out, ev)
			}
		}
	}

	if nMissing > 0 {
		common.LogNormal(logPrefix, "%d events without covariates (inner=%v)", nMissing, inner)
	}
	return out
}

// 未标注完成情况的事件填入默认值
func FillOutcome(events []common.EventRecord, o common.Outcome) []common.EventRecord {
	if o == common.Outcome_Unknown {
		return events
	}

	out := make([]common.EventRecord, len(events))
	nFilled := 0
	for i, ev := range events {
		if ev.Outcome == common.Outcome_Unknown {
			ev.Outcome = o
			nFilled++
		}
		out[i] = ev
	}
	if nFilled > 0 {
		common.LogNormal(logPrefix, "%d events without outcome set to %s", nFilled, o)
	}
	return out
}

// 按事件类型选取事件：排除列表 -> 首个事件 -> 协变量 -> 默认完成情况
func SelectEvents(et common.EventType, events []common.EventRecord, covs map[string]common.Covariates, exclude []string) []common.EventRecord {
	selected := ExcludeISINs(events, exclude)
	if !et.Repeatable() {
		selected = FirstEventPerISIN(selected)
	}
	selected = JoinCovariates(selected, covs, et.IsCDPRelease())
	selected = FillOutcome(selected, et.DefaultOutcome())
	common.LogNormal(logPrefix, "%s: %d of %d events selected", et, len(selected), len(events))
	return selected
}
