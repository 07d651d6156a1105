/*
- @Author: aztec
- @Date: 2024-01-18 16:00:09
- @Description: 通用数据定义
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package common

import (
	"fmt"
	"strings"
	"time"
)

type FnLog func(format string, args ...interface{})

var logNormal FnLog
var logError FnLog

func Init(fnLogNormal, fnLogError FnLog) {
	logNormal = fnLogNormal
	logError = fnLogError
}

func LogNormal(prefix, format string, args ...interface{}) {
	if logNormal != nil {
		logNormal(fmt.Sprintf("[%s] %s", prefix, format), args...)
	}
}

func LogError(prefix, format string, args ...interface{}) {
	if logError != nil {
		logError(fmt.Sprintf("[%s] %s", prefix, format), args...)
	}
}

// 事件类型
type EventType string

const (
	EventType_MediaCoverage  EventType = "media"
	EventType_CSRReport      EventType = "csr"
	EventType_CDP2019        EventType = "cdp2019"
	EventType_CDP2020        EventType = "cdp2020"
	EventType_CDP2021        EventType = "cdp2021"
	EventType_TargetAnnounce EventType = "announce"
)

// 全部事件类型，按输出顺序排列
var AllEventTypes = []EventType{
	EventType_MediaCoverage,
	EventType_CSRReport,
	EventType_CDP2021,
	EventType_CDP2019,
	EventType_CDP2020,
	EventType_TargetAnnounce,
}

func ParseEventType(s string) (EventType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, et := range AllEventTypes {
		if string(et) == s {
			return et, true
		}
	}
	return "", false
}

// 可重复事件：同一证券可以有多个事件日期，分组键需要带上事件日期
func (e EventType) Repeatable() bool {
	return e == EventType_MediaCoverage || e == EventType_TargetAnnounce
}

// CDP发布事件的事件日期是固定的
func (e EventType) IsCDPRelease() bool {
	return e == EventType_CDP2019 || e == EventType_CDP2020 || e == EventType_CDP2021
}

// 事件没有标注完成情况时使用的默认值
// CSR报告样本里都是未完成目标的公司
func (e EventType) DefaultOutcome() Outcome {
	if e == EventType_CSRReport {
		return Outcome_Failed
	}
	return Outcome_Unknown
}

// 目标完成情况
type Outcome string

const (
	Outcome_Unknown         Outcome = ""
	Outcome_Achieved        Outcome = "achieved"
	Outcome_Failed          Outcome = "failed"
	Outcome_Disappeared     Outcome = "disappeared"
	Outcome_DisappearedHigh Outcome = "disappeared_high_reduction"
	Outcome_DisappearedLow  Outcome = "disappeared_low_reduction"
	Outcome_OnTrack         Outcome = "on_track"
	Outcome_LagBehind       Outcome = "lag_behind"
)

var allOutcomes = []Outcome{
	Outcome_Achieved,
	Outcome_Failed,
	Outcome_Disappeared,
	Outcome_DisappearedHigh,
	Outcome_DisappearedLow,
	Outcome_OnTrack,
	Outcome_LagBehind,
}

// 兼容 "Disappeared High Reduction"、"on-track" 这类写法
func ParseOutcome(s string) (Outcome, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	if s == "ontrack" {
		s = string(Outcome_OnTrack)
	}
	for _, o := range allOutcomes {
		if string(o) == s {
			return o, true
		}
	}
	return Outcome_Unknown, false
}

// 协变量标志名
const (
	Flag_Material      = "emission_industry_high"
	Flag_CovidIndustry = "type_covid_industry"
	Flag_HighAmbition  = "failed_high_ambition"
	Flag_LowAmbition   = "failed_low_ambition"
)

// 排名类标志，带年份后缀，例如 lag_top10_2020
const (
	LagKind_Behind       = "lag_behind"
	LagKind_Top10        = "lag_top10"
	LagKind_Top20        = "lag_top20"
	LagKind_OnTrackTop10 = "ontrack_top10"
	LagKind_OnTrackTop20 = "ontrack_top20"
)

func LagFlag(kind string, year int) string {
	return fmt.Sprintf("%s_%d", kind, year)
}

// 美国和加拿大使用单独的美国指数
func UsesUSIndex(region string) bool {
	r := strings.ToUpper(strings.TrimSpace(region))
	return r == "US" || r == "CA"
}

// 日期统一为UTC零点
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// 支持 2006-01-02 以及带时间的写法，只取日期部分
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 10 {
		if t, err := time.Parse(time.DateOnly, s[:10]); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse("2006/01/02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
