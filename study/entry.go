/*
- @Author: aztec
- @Date: 2024-01-15 09:51:41
- @Description: 事件研究入口
- @Prepare对一个事件数据集做一次性准备；ReturnTest/VolumeTest对任意(窗口,子样本)组合做检验
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package study

import (
	"fmt"
	"math"

	"github.com/aztecqt/eventstudy/common"
	"gonum.org/v1/gonum/stat"
)

// 准备好的事件数据集
type Dataset struct {
	EventType common.EventType
	Full      common.Panel // 含派生指标与市场模型结果，原始偏移
	Aligned   common.Panel // 对齐后的[-15,15]子集
	Models    map[common.EventKey]MarketModel
}

// 派生指标 -> 市场模型 -> 对齐
// 如果处理失败，msg为失败原因
func Prepare(et common.EventType, raw common.Panel) (ds Dataset, ok bool, msg string) {
	if len(raw) == 0 {
		ok = false
		msg = fmt.Sprintf("empty panel for %s", et)
		return
	}

	for i := range raw {
		if raw[i].Event == nil {
			ok = false
			msg = fmt.Sprintf("row %d (%s) has no event", i, raw[i].Key)
			return
		}
	}

	ds.EventType = et
	enriched := Enrich(raw)
	ds.Models = EstimateMarketModels(enriched)
	ds.Full = ApplyMarketModel(enriched, ds.Models)
	ds.Aligned = Align(ds.Full)
	common.LogNormal(logPrefix, "%s prepared: %d rows, %d events, %d aligned rows", et, len(ds.Full), ds.Full.EventCount(), len(ds.Aligned))

	ok = true
	return
}

// 收益检验：CAAR与AAR的截面t检验
func ReturnTest(ds Dataset, w Window, sg Subgroup) GroupSummary {
	gs := GroupSummary{EventType: ds.EventType, Subgroup: sg.Name, Kind: TestKind_Return, Window: w}
	ars := MetricSeries(SelectWindow(ds.Aligned, w, sg), Metric_MMAbnLogPct)
	cars := make([]EventSeries, len(ars))
	for i, s := range ars {
		cars[i] = Cumulate(s)
	}
	gs.Events = len(ars)

	for o := w.Start; o <= w.End; o++ {
		car := CrossSectionalTest(valuesAt(cars, o))
		ar := CrossSectionalTest(valuesAt(ars, o))
		gs.Rows = append(gs.Rows, SummaryRow{
			Offset:    o,
			N:         car.N,
			CAAR:      car.Mean,
			SDCAAR:    car.SD,
			TCSecT:    car.T,
			AAR:       ar.Mean,
			SDAAR:     ar.SD,
			TMARCSecT: ar.T,
		})
	}
	return gs
}

// 成交量检验：异常成交量均值，以估计窗口内逐日均值的标准差做t检验
// 同一组合内所有日期共用一个标准差
func VolumeTest(ds Dataset, w Window, est EstWindow, sg Subgroup) GroupSummary {
	gs := GroupSummary{EventType: ds.EventType, Subgroup: sg.Name, Kind: TestKind_Volume, Window: w, EstWindow: est}
	sample := SelectWindow(ds.Aligned, w, sg)
	estRows := EstimationRows(ds.Full, est, sg)
	gs.Events = sample.EventCount()

	gs.Rows = make([]SummaryRow, 0, w.Len())
	for o := w.Start; o <= w.End; o++ {
		gs.Rows = append(gs.Rows, volumeRow(o))
	}

	for mi, m := range VolumeMetrics {
		normal := NormalLevels(estRows, m)
		_, estMeans := MeanByRawOffset(estRows, m, normal)
		sd := TimeSeriesSD(estMeans)
		series := abnormalSeries(sample, m, normal)

		for ri := range gs.Rows {
			vs := dropNaN(valuesAt(series, gs.Rows[ri].Offset))
			vstat := VolumeStat{Mean: math.NaN(), SD: sd, T: math.NaN(), N: len(vs)}
			if len(vs) > 0 {
				vstat.Mean = stat.Mean(vs, nil)
				vstat.T = vstat.Mean / sd
			}
			gs.Rows[ri].Volume[mi] = vstat
			if mi == 0 {
				gs.Rows[ri].N = len(vs)
			}
		}
	}
	return gs
}

// 成交量检验的行，收益字段置为NaN
func volumeRow(offset int) SummaryRow {
	nan := math.NaN()
	return SummaryRow{
		Offset:    offset,
		CAAR:      nan,
		SDCAAR:    nan,
		TCSecT:    nan,
		AAR:       nan,
		SDAAR:     nan,
		TMARCSecT: nan,
		Volume:    make([]VolumeStat, len(VolumeMetrics)),
	}
}
