/*
- @Author: aztec
- @Date: 2024-02-02 11:05:48
- @Description: 市场指数收益
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package common

import (
	"math"
	"strings"
	"time"
)

// 市场指数日收益（小数）
// ExUS按国家代码分组；US/CA使用单独的美国指数
type MarketIndex struct {
	ExUS map[string]map[string]float64 // code-date-return
	US   map[string]float64            // date-return
}

func NewMarketIndex() MarketIndex {
	return MarketIndex{ExUS: map[string]map[string]float64{}, US: map[string]float64{}}
}

func (m MarketIndex) SetExUS(code string, date time.Time, ret float64) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, ok := m.ExUS[code]; !ok {
		m.ExUS[code] = map[string]float64{}
	}
	m.ExUS[code][DateKey(date)] = ret
}

func (m MarketIndex) SetUS(date time.Time, ret float64) {
	m.US[DateKey(date)] = ret
}

// 用代码对照表（如fic->alpha2）把ExUS重新以地区代码为键
// 对照表中没有的代码原样保留
func (m MarketIndex) WithRegions(link map[string]string) MarketIndex {
	if len(link) == 0 {
		return m
	}

	out := MarketIndex{ExUS: map[string]map[string]float64{}, US: m.US}
	for code, series := range m.ExUS {
		region := code
		if r, ok := link[code]; ok {
			region = strings.ToUpper(r)
		}
		if _, ok := out.ExUS[region]; !ok {
			out.ExUS[region] = map[string]float64{}
		}
		for d, v := range series {
			out.ExUS[region][d] = v
		}
	}
	return out
}

// 查询某地区某日的市场收益，找不到返回NaN,false
func (m MarketIndex) Lookup(region string, date time.Time) (float64, bool) {
	dk := DateKey(date)
	if UsesUSIndex(region) {
		if v, ok := m.US[dk]; ok {
			return v, true
		}
		return math.NaN(), false
	}

	if series, ok := m.ExUS[strings.ToUpper(strings.TrimSpace(region))]; ok {
		if v, ok := series[dk]; ok {
			return v, true
		}
	}
	return math.NaN(), false
}

func (m MarketIndex) Empty() bool {
	return len(m.ExUS) == 0 && len(m.US) == 0
}
