/*
- @Author: aztec
- @Date: 2024-02-04 14:36:20
- @Description: 异常收益、异常成交量、累计异常收益
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package study

import (
	"math"

	"github.com/aztecqt/eventstudy/common"
	"gonum.org/v1/gonum/stat"
)

// 计算市场调整收益与成交量派生指标
// ln的参数非正时结果为NaN，后续统计会跳过这些值
func Enrich(p common.Panel) common.Panel {
	out := p.Clone()
	for i := range out {
		r := &out[i]
		r.MAReturn = r.Return - r.MarketReturn
		r.MAReturnLogPct = common.SafeLog(1+r.MAReturn) * 100

		if r.Shares > 0 {
			r.VolumePct = r.Volume / r.Shares * 100
		} else {
			r.VolumePct = math.NaN()
		}
		r.VolumePctLog = common.SafeLog(r.VolumePct + VolumeLogEpsilon)
	}
	return out
}

// 窗口过滤
func InWindow(p common.Panel, w Window) common.Panel {
	return p.Filter(func(r *common.PanelRow) bool { return w.Contains(r.NewOffset) })
}

// 完整窗口筛选：事件在窗口内的行数不足窗口长度则整体剔除
func CompleteWindow(p common.Panel, w Window) common.Panel {
	counts := map[common.EventKey]int{}
	for _, r := range p {
		if w.Contains(r.NewOffset) {
			counts[r.Key]++
		}
	}
	return p.Filter(func(r *common.PanelRow) bool { return counts[r.Key] >= w.Len() })
}

// 事件窗口样本：窗口过滤 -> 完整窗口 -> 子样本
func SelectWindow(aligned common.Panel, w Window, sg Subgroup) common.Panel {
	sample := CompleteWindow(InWindow(aligned, w), w)
	return sample.Filter(func(r *common.PanelRow) bool { return sg.Match(r.Event) }).SortedByOffset()
}

// 每个事件的指标序列（按对齐序号）
func MetricSeries(sample common.Panel, m Metric) []EventSeries {
	keys, groups := sample.SortedByOffset().GroupByKey()
	out := make([]EventSeries, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		s := EventSeries{Key: k, Event: g[0].Event, Offsets: make([]int, len(g)), Values: make([]float64, len(g))}
		for i := range g {
			s.Offsets[i] = g[i].NewOffset
			s.Values[i] = m.Value(&g[i])
		}
		out = append(out, s)
	}
	return out
}

// 累计：前缀和。NaN处结果为NaN，但不影响后续累计
func Cumulate(s EventSeries) EventSeries {
	out := EventSeries{Key: s.Key, Event: s.Event, Offsets: s.Offsets, Values: make([]float64, len(s.Values))}
	sum := 0.0
	for i, v := range s.Values {
		if math.IsNaN(v) {
			out.Values[i] = math.NaN()
			continue
		}
		sum += v
		out.Values[i] = sum
	}
	return out
}

// 窗口内每个事件的累计异常收益（市场模型、对数百分比）
func CARSeries(ds Dataset, w Window, sg Subgroup) []EventSeries {
	ars := MetricSeries(SelectWindow(ds.Aligned, w, sg), Metric_MMAbnLogPct)
	cars := make([]EventSeries, len(ars))
	for i, s := range ars {
		cars[i] = Cumulate(s)
	}
	return cars
}

// 正常水平：估计窗口内的指标均值（忽略NaN）
func NormalLevels(estRows common.Panel, m Metric) map[common.EventKey]float64 {
	keys, groups := estRows.GroupByKey()
	out := make(map[common.EventKey]float64, len(keys))
	for _, k := range keys {
		vals := []float64{}
		for i := range groups[k] {
			if v := m.Value(&groups[k][i]); !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
		if len(vals) > 0 {
			out[k] = stat.Mean(vals, nil)
		}
	}
	return out
}

// 估计窗口的行：来自未对齐的完整面板，按原始偏移截取，并应用子样本
func EstimationRows(full common.Panel, est EstWindow, sg Subgroup) common.Panel {
	return full.Filter(func(r *common.PanelRow) bool {
		return est.Contains(r.RawOffset) && sg.Match(r.Event)
	})
}

// 异常值 = 指标 - 该事件的正常水平；没有正常水平时为NaN
func abnormal(r *common.PanelRow, m Metric, normal map[common.EventKey]float64) float64 {
	n, ok := normal[r.Key]
	if !ok {
		return math.NaN()
	}
	return m.Value(r) - n
}

// 窗口内每个事件的异常成交量
func AbnormalVolumeSeries(ds Dataset, w Window, est EstWindow, sg Subgroup, m Metric) []EventSeries {
	normal := NormalLevels(EstimationRows(ds.Full, est, sg), m)
	return abnormalSeries(SelectWindow(ds.Aligned, w, sg), m, normal)
}

func abnormalSeries(sample common.Panel, m Metric, normal map[common.EventKey]float64) []EventSeries {
	series := MetricSeries(sample, m)
	for i := range series {
		s := &series[i]
		n, ok := normal[s.Key]
		vals := make([]float64, len(s.Values))
		for j, v := range s.Values {
			if ok {
				vals[j] = v - n
			} else {
				vals[j] = math.NaN()
			}
		}
		s.Values = vals
	}
	return series
}
