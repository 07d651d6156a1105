/*
- @Author: aztec
- @Date: 2024-02-04 10:11:52
- @Description: 市场模型 ret = alpha + beta * mkt
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package study

import (
	"math"

	"github.com/aztecqt/eventstudy/common"
	"gonum.org/v1/gonum/stat"
)

// 用单个事件的面板行拟合市场模型
// 只使用原始偏移在[-130,-30)内、收益和市场收益都不缺失的行
func FitMarketModel(rows common.Panel) MarketModel {
	xs := []float64{}
	ys := []float64{}
	for _, r := range rows {
		if r.RawOffset < MarketModelEstFrom || r.RawOffset >= MarketModelEstTo {
			continue
		}
		if math.IsNaN(r.Return) || math.IsNaN(r.MarketReturn) {
			continue
		}
		xs = append(xs, r.MarketReturn)
		ys = append(ys, r.Return)
	}

	if len(xs) < MarketModelMinObs {
		return undefinedMarketModel(len(xs))
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		// 市场收益没有波动时无法估计
		return undefinedMarketModel(len(xs))
	}
	return MarketModel{Alpha: alpha, Beta: beta, N: len(xs), Defined: true}
}

// 逐事件估计
func EstimateMarketModels(p common.Panel) map[common.EventKey]MarketModel {
	keys, groups := p.GroupByKey()
	models := make(map[common.EventKey]MarketModel, len(keys))
	nUndefined := 0
	for _, k := range keys {
		m := FitMarketModel(groups[k])
		if !m.Defined {
			nUndefined++
		}
		models[k] = m
	}

	if nUndefined > 0 {
		common.LogNormal(logPrefix, "market model undefined for %d/%d events (less than %d observations)", nUndefined, len(keys), MarketModelMinObs)
	}
	return models
}

// 用市场模型计算预期收益与异常收益（整段序列，不仅是估计窗口）
func ApplyMarketModel(p common.Panel, models map[common.EventKey]MarketModel) common.Panel {
	out := p.Clone()
	for i := range out {
		r := &out[i]
		m, ok := models[r.Key]
		if !ok {
			m = undefinedMarketModel(0)
		}
		r.MMPredicted = m.Predict(r.MarketReturn)
		r.MMAbnormal = r.Return - r.MMPredicted
		r.MMAbnormalLogPct = common.SafeLog(1+r.MMAbnormal) * 100
	}
	return out
}
