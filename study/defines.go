/*
- @Author: aztec
- @Date: 2024-01-15 11:44:19
- @Description: 事件研究的参数与结果定义
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package study

import (
	"fmt"
	"math"

	"github.com/aztecqt/eventstudy/common"
)

var logPrefix = "study"

const (
	// 对齐范围（原始工作日偏移）
	AlignFrom = -15
	AlignTo   = 15

	// 市场模型估计窗口 [-130,-30)
	MarketModelEstFrom = -130
	MarketModelEstTo   = -30
	MarketModelMinObs  = 60

	// 对数成交量的平移量，避免ln(0)
	VolumeLogEpsilon = 0.000255
)

// 事件窗口，对齐后序号，闭区间
type Window struct {
	Start int `toml:"start"`
	End   int `toml:"end"`
}

func (w Window) Len() int {
	return w.End - w.Start + 1
}

func (w Window) Contains(offset int) bool {
	return offset >= w.Start && offset <= w.End
}

func (w Window) Valid() bool {
	return w.Start <= w.End && w.Start >= AlignFrom && w.End <= AlignTo
}

// [-1,10] -> m1_p10
func (w Window) Name() string {
	return fmt.Sprintf("%s_%s", signedName(w.Start), signedName(w.End))
}

func (w Window) String() string {
	return fmt.Sprintf("[%d,%d]", w.Start, w.End)
}

func signedName(v int) string {
	if v < 0 {
		return fmt.Sprintf("m%d", -v)
	}
	return fmt.Sprintf("p%d", v)
}

// 成交量估计窗口，原始工作日偏移，闭区间
type EstWindow struct {
	From int `toml:"from"`
	To   int `toml:"to"`
}

func (e EstWindow) Contains(rawOffset int) bool {
	return rawOffset >= e.From && rawOffset <= e.To
}

func (e EstWindow) String() string {
	return fmt.Sprintf("[%d,%d]", e.From, e.To)
}

// 常用窗口
var (
	Window_M1P10  = Window{-1, 10}
	Window_M1P5   = Window{-1, 5}
	Window_M1P3   = Window{-1, 3}
	Window_M1P1   = Window{-1, 1}
	Window_M10P10 = Window{-10, 10}
	Window_M5P5   = Window{-5, 5}
	Window_M15P15 = Window{-15, 15}

	EstWindow_140_40 = EstWindow{-140, -40}
	EstWindow_135_35 = EstWindow{-135, -35}
)

// 检验类型
type TestKind string

const (
	TestKind_Return TestKind = "return"
	TestKind_Volume TestKind = "volume"
)

// 市场模型参数
// Defined=false 表示估计窗口内有效样本不足
type MarketModel struct {
	Alpha   float64
	Beta    float64
	N       int
	Defined bool
}

func undefinedMarketModel(n int) MarketModel {
	return MarketModel{Alpha: math.NaN(), Beta: math.NaN(), N: n}
}

func (m MarketModel) Predict(marketReturn float64) float64 {
	if !m.Defined {
		return math.NaN()
	}
	return m.Alpha + m.Beta*marketReturn
}

// 截面检验结果
type CrossSection struct {
	Mean float64
	SD   float64
	T    float64
	N    int
}

// 成交量时序检验结果（单个指标单日）
type VolumeStat struct {
	Mean float64
	SD   float64 // 估计窗口内得到，整个事件窗口共用
	T    float64
	N    int
}

// 汇总表中的一行（一个对齐序号）
type SummaryRow struct {
	Offset int
	N      int

	// 收益检验
	CAAR      float64
	SDCAAR    float64
	TCSecT    float64
	AAR       float64
	SDAAR     float64
	TMARCSecT float64

	// 成交量检验，顺序与 VolumeMetrics 一致
	Volume []VolumeStat
}

// 一个（事件类型、子样本、窗口）组合的汇总结果
type GroupSummary struct {
	EventType common.EventType
	Subgroup  string
	Kind      TestKind
	Window    Window
	EstWindow EstWindow // 仅成交量检验
	Events    int       // 通过完整窗口筛选、进入检验的事件数
	Rows      []SummaryRow
}

// 输出名，例如 return_cdp2021_failed_material_m1_p3
func (g GroupSummary) Name() string {
	return fmt.Sprintf("%s_%s_%s_%s", g.Kind, g.EventType, g.Subgroup, g.Window.Name())
}

// 单个事件在窗口内的序列（CAR或异常成交量）
type EventSeries struct {
	Key     common.EventKey
	Event   *common.EventRecord
	Offsets []int
	Values  []float64
}

// 指定序号的值，不存在返回NaN
func (s EventSeries) At(offset int) float64 {
	for i, o := range s.Offsets {
		if o == offset {
			return s.Values[i]
		}
	}
	return math.NaN()
}

// 窗口内均值，忽略NaN
func (s EventSeries) Mean() float64 {
	sum, n := 0.0, 0
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// 最后一个序号的值
func (s EventSeries) Last() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return s.Values[len(s.Values)-1]
}
