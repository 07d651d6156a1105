/*
- @Author: aztec
- @Date: 2024-02-06 16:25:09
- @Description: 汇总结果的输出形式：控制台表格、DataFrame
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package study

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/jedib0t/go-pretty/table"
)

func fmtFloat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}

func (g GroupSummary) ToTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("%s %s %s %s (events=%d)", g.Kind, g.EventType, g.Subgroup, g.Window, g.Events))

	if g.Kind == TestKind_Return {
		t.AppendHeader(table.Row{"Offset", "N", "CAAR_logPct", "SD_CAAR", "T_CSecT", "AAR_logPct", "SD_AAR", "T_MAR_CSecT"})
		for _, r := range g.Rows {
			t.AppendRow(table.Row{r.Offset, r.N, fmtFloat(r.CAAR), fmtFloat(r.SDCAAR), fmtFloat(r.TCSecT), fmtFloat(r.AAR), fmtFloat(r.SDAAR), fmtFloat(r.TMARCSecT)})
		}
		return t
	}

	// 成交量只展示对数百分比指标
	idx := len(VolumeMetrics) - 1
	name := VolumeMetrics[idx].AbnormalName()
	t.AppendHeader(table.Row{"Offset", "N", name, "SD_" + name, "T_" + name})
	for _, r := range g.Rows {
		v := r.Volume[idx]
		t.AppendRow(table.Row{r.Offset, v.N, fmtFloat(v.Mean), fmtFloat(v.SD), fmtFloat(v.T)})
	}
	return t
}

// 转为DataFrame，用于落盘
func (g GroupSummary) ToDataFrame() dataframe.DataFrame {
	n := len(g.Rows)
	offsets := make([]int, n)
	counts := make([]int, n)
	for i, r := range g.Rows {
		offsets[i] = r.Offset
		counts[i] = r.N
	}

	cols := []series.Series{
		series.New(offsets, series.Int, "NEWDaysRelativeToEvent"),
		series.New(counts, series.Int, "N"),
	}

	floatCol := func(name string, fn func(r SummaryRow) float64) series.Series {
		vals := make([]float64, n)
		for i, r := range g.Rows {
			vals[i] = fn(r)
		}
		return series.New(vals, series.Float, name)
	}

	if g.Kind == TestKind_Return {
		cols = append(cols,
			floatCol("CAAR_logPct", func(r SummaryRow) float64 { return r.CAAR }),
			floatCol("SD_CAAR", func(r SummaryRow) float64 { return r.SDCAAR }),
			floatCol("T_CSecT", func(r SummaryRow) float64 { return r.TCSecT }),
			floatCol("AAR_logPct", func(r SummaryRow) float64 { return r.AAR }),
			floatCol("SD_AAR", func(r SummaryRow) float64 { return r.SDAAR }),
			floatCol("T_MAR_CSecT", func(r SummaryRow) float64 { return r.TMARCSecT }),
		)
	} else {
		for mi, m := range VolumeMetrics {
			mi := mi
			name := m.AbnormalName()
			cols = append(cols,
				floatCol(name, func(r SummaryRow) float64 { return r.Volume[mi].Mean }),
				floatCol("SD_"+name, func(r SummaryRow) float64 { return r.Volume[mi].SD }),
				floatCol("T_"+name, func(r SummaryRow) float64 { return r.Volume[mi].T }),
			)
		}
	}

	return dataframe.New(cols...)
}
