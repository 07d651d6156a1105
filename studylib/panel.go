/*
- @Author: aztec
- @Date: 2024-02-08 10:16:54
- @Description: 宽表：每个事件一行，各列为不同窗口下的CAR和异常成交量
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package studylib

import (
	"github.com/aztecqt/eventstudy/common"
	"github.com/aztecqt/eventstudy/study"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// 宽表中的一列
type panelColumn struct {
	name   string
	et     common.EventType
	series func(ds study.Dataset) []study.EventSeries
	reduce func(s study.EventSeries) float64
}

func carOf(w study.Window) func(ds study.Dataset) []study.EventSeries {
	return func(ds study.Dataset) []study.EventSeries {
		return study.CARSeries(ds, w, study.All())
	}
}

func abnVolOf(w study.Window, est study.EstWindow) func(ds study.Dataset) []study.EventSeries {
	return func(ds study.Dataset) []study.EventSeries {
		return study.AbnormalVolumeSeries(ds, w, est, study.All(), study.Metric_VolumePctLog)
	}
}

func lastOf(s study.EventSeries) float64 { return s.Last() }
func meanOf(s study.EventSeries) float64 { return s.Mean() }
func atOf(offset int) func(s study.EventSeries) float64 {
	return func(s study.EventSeries) float64 { return s.At(offset) }
}

// 短窗口的四列：CAR[-1,3]、CAR[-1,1]、异常成交量[-5,5]均值、异常成交量day0
// CAR[-1,1]取[-1,3]样本在偏移1处的值
func shortColumns(prefix string, et common.EventType) []panelColumn {
	return []panelColumn{
		{name: prefix + "CAR_m1_p3", et: et, series: carOf(study.Window_M1P3), reduce: lastOf},
		{name: prefix + "CAR_m1_p1", et: et, series: carOf(study.Window_M1P3), reduce: atOf(1)},
		{name: prefix + "AbnVol_pctlog_avgm5p5", et: et, series: abnVolOf(study.Window_M5P5, study.EstWindow_135_35), reduce: meanOf},
		{name: prefix + "AbnVol_pctlog_day0", et: et, series: abnVolOf(study.Window_M5P5, study.EstWindow_135_35), reduce: atOf(0)},
	}
}

// CDP宽表，以ISIN为键
func cdpPanelColumns() []panelColumn {
	cols := []panelColumn{
		{name: "CDP_CAR_m1_p10", et: common.EventType_CDP2021, series: carOf(study.Window_M1P10), reduce: lastOf},
		{name: "CDP_CAR_m1_p5", et: common.EventType_CDP2021, series: carOf(study.Window_M1P5), reduce: lastOf},
	}
	cols = append(cols, shortColumns("CDP_", common.EventType_CDP2021)...)
	cols = append(cols, panelColumn{
		name:   "CDP_AbnVol_pctlog_avgm10p10",
		et:     common.EventType_CDP2021,
		series: abnVolOf(study.Window_M10P10, study.EstWindow_140_40),
		reduce: meanOf,
	})
	cols = append(cols, shortColumns("CDP19_", common.EventType_CDP2020)...)
	cols = append(cols, shortColumns("CDP18_", common.EventType_CDP2019)...)
	return cols
}

// 目标公告宽表，以(ISIN, EventDate)为键
// CAR[-1,1]使用自己的窗口样本，只要求[-1,1]完整
func announcePanelColumns() []panelColumn {
	cols := shortColumns("", common.EventType_TargetAnnounce)
	cols[1].series = carOf(study.Window_M1P1)
	cols[1].reduce = lastOf
	return cols
}

// 一列的结果转为DataFrame：键列 + 值列
func columnFrame(col panelColumn, ss []study.EventSeries, withDate bool) dataframe.DataFrame {
	isins := make([]string, len(ss))
	dates := make([]string, len(ss))
	vals := make([]float64, len(ss))
	for i, s := range ss {
		isins[i] = s.Key.ISIN
		dates[i] = common.DateKey(s.Key.EventDate)
		vals[i] = col.reduce(s)
	}

	cols := []series.Series{series.New(isins, series.String, "ISIN")}
	if withDate {
		cols = append(cols, series.New(dates, series.String, "EventDate"))
	}
	cols = append(cols, series.New(vals, series.Float, col.name))
	return dataframe.New(cols...)
}

// 依次外连接各列。数据集缺失的列跳过
func buildPanel(name string, cols []panelColumn, datasets map[common.EventType]study.Dataset, withDate bool) (df dataframe.DataFrame, ok bool) {
	keys := []string{"ISIN"}
	if withDate {
		keys = append(keys, "EventDate")
	}

	n := 0
	for _, col := range cols {
		ds, exists := datasets[col.et]
		if !exists {
			common.LogNormal(logPrefix, "%s: skip column %s, no %s dataset", name, col.name, col.et)
			continue
		}

		cf := columnFrame(col, col.series(ds), withDate)
		if n == 0 {
			df = cf
		} else {
			df = df.OuterJoin(cf, keys...)
		}
		n++
	}

	if n == 0 {
		return df, false
	}
	if df.Err != nil {
		common.LogError(logPrefix, "%s: %s", name, df.Err.Error())
		return df, false
	}
	orders := []dataframe.Order{dataframe.Sort("ISIN")}
	if withDate {
		orders = append(orders, dataframe.Sort("EventDate"))
	}
	df = df.Arrange(orders...)
	common.LogNormal(logPrefix, "%s: %d rows, %d columns", name, df.Nrow(), df.Ncol())
	return df, true
}
