/*
- @Author: aztec
- @Date: 2024-02-06 15:10:44
- @Description: 事件面板导出为DataFrame，列名与原始数据一致
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package data

import (
	"github.com/aztecqt/eventstudy/common"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func PanelToDataFrame(p common.Panel) dataframe.DataFrame {
	n := len(p)
	isin := make([]string, n)
	eventDate := make([]string, n)
	marketDate := make([]string, n)
	region := make([]string, n)
	outcome := make([]string, n)
	infoCode := make([]int, n)
	rawOffset := make([]int, n)
	newOffset := make([]int, n)

	floatCols := []struct {
		name string
		get  func(r *common.PanelRow) float64
		vals []float64
	}{
		{name: "close", get: func(r *common.PanelRow) float64 { return r.Close }},
		{name: "ret", get: func(r *common.PanelRow) float64 { return r.Return }},
		{name: "MarketReturn", get: func(r *common.PanelRow) float64 { return r.MarketReturn }},
		{name: "Volume", get: func(r *common.PanelRow) float64 { return r.Volume }},
		{name: "numshrs", get: func(r *common.PanelRow) float64 { return r.Shares }},
		{name: "Volume_pct", get: func(r *common.PanelRow) float64 { return r.VolumePct }},
		{name: "Volume_pctlog", get: func(r *common.PanelRow) float64 { return r.VolumePctLog }},
		{name: "MAReturn", get: func(r *common.PanelRow) float64 { return r.MAReturn }},
		{name: "MAReturn_logPct", get: func(r *common.PanelRow) float64 { return r.MAReturnLogPct }},
		{name: "predRet_MarketModel", get: func(r *common.PanelRow) float64 { return r.MMPredicted }},
		{name: "adjRet_MarketModel", get: func(r *common.PanelRow) float64 { return r.MMAbnormal }},
		{name: "adjRet_MarketModel_logPct", get: func(r *common.PanelRow) float64 { return r.MMAbnormalLogPct }},
	}
	for i := range floatCols {
		floatCols[i].vals = make([]float64, n)
	}

	for i := range p {
		r := &p[i]
		isin[i] = r.Key.ISIN
		eventDate[i] = common.DateKey(r.Key.EventDate)
		marketDate[i] = common.DateKey(r.Date)
		region[i] = r.Region
		if r.Event != nil {
			outcome[i] = string(r.Event.Outcome)
		}
		infoCode[i] = r.InfoCode
		rawOffset[i] = r.RawOffset
		newOffset[i] = r.NewOffset
		for j := range floatCols {
			floatCols[j].vals[i] = floatCols[j].get(r)
		}
	}

	cols := []series.Series{
		series.New(isin, series.String, "ISIN"),
		series.New(infoCode, series.Int, "InfoCode"),
		series.New(marketDate, series.String, "MarketDate"),
		series.New(eventDate, series.String, "EventDate"),
		series.New(region, series.String, "Region"),
		series.New(outcome, series.String, "type"),
	}
	for _, c := range floatCols {
		cols = append(cols, series.New(c.vals, series.Float, c.name))
	}
	cols = append(cols,
		series.New(rawOffset, series.Int, "DaysRelativeToEvent"),
		series.New(newOffset, series.Int, "NEWDaysRelativeToEvent"))
	return dataframe.New(cols...)
}
