/*
- @Author: aztec
- @Date: 2024-02-01 15:48:26
- @Description: 事件日期表、协变量表的加载
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package local

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/aztecqt/eventstudy/common"
	"github.com/go-gota/gota/dataframe"
)

// 这些列不作为标志解析
var nonFlagColumns = []string{"ISIN", "EventDate", "type", "id", "company", "name"}

// 用0/1列表示完成情况的写法（媒体报道、目标公告）
// 多列同时为1时取靠前的一列
var outcomeFlagColumns = []struct {
	name    string
	outcome common.Outcome
}{
	{"achieved", common.Outcome_Achieved},
	{"failed", common.Outcome_Failed},
	{"disappeared", common.Outcome_Disappeared},
	{"on_track", common.Outcome_OnTrack},
	{"lag_behind", common.Outcome_LagBehind},
}

type labelReader struct {
	types []string
	flags map[string][]string
}

func newLabelReader(df dataframe.DataFrame) labelReader {
	lr := labelReader{types: column(df, "type"), flags: map[string][]string{}}
	for _, name := range df.Names() {
		if slices.Contains(nonFlagColumns, name) {
			continue
		}
		lr.flags[name] = df.Col(name).Records()
	}
	return lr
}

// 第i行的完成情况与标志
func (lr labelReader) read(i int) (common.Outcome, map[string]int) {
	outcome := common.Outcome_Unknown
	if lr.types != nil {
		if o, ok := common.ParseOutcome(lr.types[i]); ok {
			outcome = o
		}
	}

	flags := map[string]int{}
	for name, col := range lr.flags {
		if v, ok := common.ParseFlag(col[i]); ok {
			flags[name] = v
		}
	}

	if outcome == common.Outcome_Unknown {
		for _, c := range outcomeFlagColumns {
			if flags[c.name] == 1 {
				outcome = c.outcome
				break
			}
		}
	}
	return outcome, flags
}

// 加载事件表
// fixedDate非零时（CDP发布），所有事件使用该日期，文件中可以没有EventDate列
func LoadEvents(path string, et common.EventType, fixedDate time.Time) ([]common.EventRecord, error) {
	df, err := ReadCSVFrame(path)
	if err != nil {
		return nil, err
	}
	df = normalizeColumns(df)

	required := []string{"ISIN"}
	if fixedDate.IsZero() {
		required = append(required, "EventDate")
	}
	if err := requireColumns(df, path, required...); err != nil {
		return nil, err
	}

	isins := column(df, "ISIN")
	dates := column(df, "EventDate")
	lr := newLabelReader(df)

	events := make([]common.EventRecord, 0, len(isins))
	nDropped := 0
	for i := range isins {
		isin := strings.TrimSpace(isins[i])
		if common.IsMissing(isin) {
			nDropped++
			continue
		}

		ev := common.EventRecord{ISIN: isin, Type: et}
		if fixedDate.IsZero() {
			d, err := common.ParseDate(dates[i])
			if err != nil {
				nDropped++
				continue
			}
			ev.EventDate = common.DateOf(d)
		} else {
			ev.EventDate = common.DateOf(fixedDate)
		}

		ev.Outcome, ev.Flags = lr.read(i)
		events = append(events, ev)
	}

	if nDropped > 0 {
		common.LogError(logPrefix, "%s: %d event rows without isin/date dropped", path, nDropped)
	}
	common.LogNormal(logPrefix, "%s: %d %s events loaded", path, len(events), et)
	return events, nil
}

// 加载协变量表，以ISIN为键。同一ISIN出现多次时保留第一行
func LoadCovariates(path string) (map[string]common.Covariates, error) {
	df, err := ReadCSVFrame(path)
	if err != nil {
		return nil, err
	}
	df = normalizeColumns(df)
	if err := requireColumns(df, path, "ISIN"); err != nil {
		return nil, err
	}

	isins := column(df, "ISIN")
	lr := newLabelReader(df)
	covs := make(map[string]common.Covariates, len(isins))
	for i := range isins {
		isin := strings.TrimSpace(isins[i])
		if common.IsMissing(isin) {
			continue
		}
		if _, ok := covs[isin]; ok {
			continue
		}
		c := common.Covariates{ISIN: isin}
		c.Outcome, c.Flags = lr.read(i)
		covs[isin] = c
	}

	common.LogNormal(logPrefix, "%s: covariates for %d securities loaded", path, len(covs))
	return covs, nil
}

// 加载代码对照表，例如 fic(3位) -> Region(2位)
func LoadCodeLink(path, fromCol, toCol string) (map[string]string, error) {
	df, err := ReadCSVFrame(path)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(df, path, fromCol, toCol); err != nil {
		return nil, err
	}

	from := column(df, fromCol)
	to := column(df, toCol)
	link := make(map[string]string, len(from))
	for i := range from {
		f := strings.ToUpper(strings.TrimSpace(from[i]))
		t := strings.ToUpper(strings.TrimSpace(to[i]))
		if f == "" || t == "" || common.IsMissing(f) || common.IsMissing(t) {
			continue
		}
		link[f] = t
	}
	if len(link) == 0 {
		return nil, fmt.Errorf("%s: empty code link", path)
	}
	return link, nil
}
