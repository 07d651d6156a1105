/*
- @Author: aztec
- @Date: 2024-01-16 16:18:51
- @Description: 本地日线数据加载
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package local

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/aztecqt/eventstudy/common"
)

// 日线文件必需的列
var observationColumns = []string{"ISIN", "MarketDate", "ret"}

// 加载日线。解析失败的行跳过并记录日志，不影响其他行
// 返回值按文件顺序排列
func LoadObservations(path string) ([]common.DailyObservation, error) {
	df, err := ReadCSVFrame(path)
	if err != nil {
		return nil, err
	}
	df = normalizeColumns(df)
	if err := requireColumns(df, path, observationColumns...); err != nil {
		return nil, err
	}

	isins := column(df, "ISIN")
	dates := column(df, "MarketDate")
	rets := column(df, "ret")
	infoCodes := column(df, "InfoCode")
	firmIds := column(df, "id")
	closes := column(df, "close")
	volumes := column(df, "Volume")
	shares := column(df, "numshrs")
	regions := column(df, "Region")

	at := func(col []string, i int) string {
		if col == nil {
			return ""
		}
		return col[i]
	}

	obs := make([]common.DailyObservation, 0, len(isins))
	nMalformed, nMissingKey := 0, 0
	for i := range isins {
		isin := strings.TrimSpace(isins[i])
		if common.IsMissing(isin) || common.IsMissing(strings.TrimSpace(dates[i])) {
			nMissingKey++
			continue
		}

		date, err := common.ParseDate(dates[i])
		if err != nil {
			nMissingKey++
			continue
		}

		ret, err := common.ParseReturn(rets[i])
		if err != nil {
			if errors.Is(err, common.ErrMalformedReturn) && nMalformed < 10 {
				common.LogError(logPrefix, "%s row %d: %s", path, i+1, err.Error())
			}
			nMalformed++
			continue
		}

		o := common.DailyObservation{
			ISIN:   isin,
			FirmId: strings.TrimSpace(at(firmIds, i)),
			Date:   common.DateOf(date),
			Return: ret,
			Region: strings.ToUpper(strings.TrimSpace(at(regions, i))),
		}
		if v, err := strconv.Atoi(strings.TrimSpace(at(infoCodes, i))); err == nil {
			o.InfoCode = v
		}
		o.Close = parseOrNaN(at(closes, i))
		o.Volume = parseOrNaN(at(volumes, i))
		o.Shares = parseOrNaN(at(shares, i))
		obs = append(obs, o)
	}

	if nMalformed > 0 || nMissingKey > 0 {
		common.LogError(logPrefix, "%s: %d malformed return rows, %d rows without isin/date dropped", path, nMalformed, nMissingKey)
	}
	common.LogNormal(logPrefix, "%s: %d observations loaded", path, len(obs))
	return obs, nil
}

func parseOrNaN(s string) float64 {
	if v, err := common.ParseFloat(s); err == nil {
		return v
	}
	return math.NaN()
}
