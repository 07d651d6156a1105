/*
- @Author: aztec
- @Date: 2024-02-05 11:17:45
- @Description: 显著性检验
- @截面检验使用样本方差(N-1)，时序检验使用总体方差(N)，两者口径不同，保持原样
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package study

import (
	"math"
	"slices"

	"github.com/aztecqt/eventstudy/common"
	"gonum.org/v1/gonum/stat"
)

func dropNaN(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// 截面t检验：t = sqrt(N) * mean / sd，sd为样本标准差
// N<=1时sd和t为NaN
func CrossSectionalTest(vals []float64) CrossSection {
	vs := dropNaN(vals)
	cs := CrossSection{N: len(vs), Mean: math.NaN(), SD: math.NaN(), T: math.NaN()}
	if cs.N == 0 {
		return cs
	}

	cs.Mean = stat.Mean(vs, nil)
	if cs.N < 2 {
		return cs
	}

	cs.SD = math.Sqrt(stat.Variance(vs, nil))
	cs.T = math.Sqrt(float64(cs.N)) * cs.Mean / cs.SD
	return cs
}

// 时序标准差：估计窗口内逐日均值序列的总体标准差
func TimeSeriesSD(series []float64) float64 {
	vs := dropNaN(series)
	if len(vs) == 0 {
		return math.NaN()
	}
	return stat.PopStdDev(vs, nil)
}

// 估计窗口内，按原始偏移求截面均值，返回按偏移排序的序列
func MeanByRawOffset(estRows common.Panel, m Metric, normal map[common.EventKey]float64) (offsets []int, means []float64) {
	byOffset := map[int][]float64{}
	for i := range estRows {
		r := &estRows[i]
		if v := abnormal(r, m, normal); !math.IsNaN(v) {
			byOffset[r.RawOffset] = append(byOffset[r.RawOffset], v)
		}
	}

	for o := range byOffset {
		offsets = append(offsets, o)
	}
	slices.Sort(offsets)
	for _, o := range offsets {
		means = append(means, stat.Mean(byOffset[o], nil))
	}
	return
}

// 按对齐序号汇总各事件序列
func valuesAt(series []EventSeries, offset int) []float64 {
	vals := make([]float64, 0, len(series))
	for _, s := range series {
		vals = append(vals, s.At(offset))
	}
	return vals
}
