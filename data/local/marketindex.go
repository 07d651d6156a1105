/*
- @Author: aztec
- @Date: 2024-02-02 11:20:03
- @Description: 市场指数文件的加载
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package local

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aztecqt/eventstudy/common"
)

// 加载市场指数
// exUSPath: 列 date|MarketDate, portret|MarketReturn, fic
// linkPath: fic到Region的对照表，可以为空，为空时fic直接作为地区代码
// usPath: 列 caldt, vwretd
// exUSPath与usPath至少要有一个
func LoadMarketIndex(exUSPath, linkPath, usPath string) (common.MarketIndex, error) {
	mi := common.NewMarketIndex()
	if exUSPath == "" && usPath == "" {
		return mi, errors.New("no market index file configured")
	}

	if exUSPath != "" {
		if err := loadExUSIndex(mi, exUSPath); err != nil {
			return mi, err
		}
	}

	if linkPath != "" {
		link, err := LoadCodeLink(linkPath, "fic", "Region")
		if err != nil {
			return mi, err
		}
		mi = mi.WithRegions(link)
	}

	if usPath != "" {
		if err := loadUSIndex(mi, usPath); err != nil {
			return mi, err
		}
	}

	common.LogNormal(logPrefix, "market index loaded, %d ex-us regions, %d us days", len(mi.ExUS), len(mi.US))
	return mi, nil
}

func loadExUSIndex(mi common.MarketIndex, path string) error {
	df, err := ReadCSVFrame(path)
	if err != nil {
		return err
	}

	dates := column(df, "date", "MarketDate")
	rets := column(df, "portret", "MarketReturn")
	codes := column(df, "fic", "Region")
	if dates == nil || rets == nil || codes == nil {
		return fmt.Errorf("%s: need date, portret and fic columns", path)
	}

	nBad := 0
	for i := range dates {
		d, err := common.ParseDate(dates[i])
		if err != nil {
			nBad++
			continue
		}
		v, err := common.ParseFloat(rets[i])
		if err != nil {
			nBad++
			continue
		}
		code := strings.TrimSpace(codes[i])
		if code == "" {
			nBad++
			continue
		}
		mi.SetExUS(code, d, v)
	}

	if nBad > 0 {
		common.LogError(logPrefix, "%s: %d index rows skipped", path, nBad)
	}
	return nil
}

func loadUSIndex(mi common.MarketIndex, path string) error {
	df, err := ReadCSVFrame(path)
	if err != nil {
		return err
	}
	if err := requireColumns(df, path, "caldt", "vwretd"); err != nil {
		return err
	}

	dates := column(df, "caldt")
	rets := column(df, "vwretd")
	nBad := 0
	for i := range dates {
		d, err := common.ParseDate(dates[i])
		if err != nil {
			nBad++
			continue
		}
		v, err := common.ParseFloat(rets[i])
		if err != nil {
			nBad++
			continue
		}
		mi.SetUS(d, v)
	}

	if nBad > 0 {
		common.LogError(logPrefix, "%s: %d index rows skipped", path, nBad)
	}
	return nil
}
