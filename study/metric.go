/*
- @Author: aztec
- @Date: 2024-01-17 11:53:54
- @Description: 指标的定义。从面板行中取出某个数值
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package study

import "github.com/aztecqt/eventstudy/common"

type Metric interface {
	// 面板列名
	Name() string

	// 对应异常值的列名
	AbnormalName() string

	Value(r *common.PanelRow) float64
}

type fieldMetric struct {
	name    string
	abnName string
	fn      func(r *common.PanelRow) float64
}

func (m fieldMetric) Name() string                     { return m.name }
func (m fieldMetric) AbnormalName() string             { return m.abnName }
func (m fieldMetric) Value(r *common.PanelRow) float64 { return m.fn(r) }

var (
	Metric_MAReturnLogPct = fieldMetric{"MAReturn_logPct", "MAReturn_logPct", func(r *common.PanelRow) float64 { return r.MAReturnLogPct }}
	Metric_MMAbnLogPct    = fieldMetric{"adjRet_MarketModel_logPct", "adjRet_MarketModel_logPct", func(r *common.PanelRow) float64 { return r.MMAbnormalLogPct }}
	Metric_Volume         = fieldMetric{"Volume", "AbnVolume", func(r *common.PanelRow) float64 { return r.Volume }}
	Metric_VolumePct      = fieldMetric{"Volume_pct", "AbnVol_pct", func(r *common.PanelRow) float64 { return r.VolumePct }}
	Metric_VolumePctLog   = fieldMetric{"Volume_pctlog", "AbnVol_pctlog", func(r *common.PanelRow) float64 { return r.VolumePctLog }}
)

// 成交量检验涉及的三个指标
var VolumeMetrics = []Metric{Metric_Volume, Metric_VolumePct, Metric_VolumePctLog}
