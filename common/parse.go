/*
- @Author: aztec
- @Date: 2024-02-02 10:30:05
- @Description: 数值字段解析
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package common

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrMalformedReturn = errors.New("malformed return")

var hundred = decimal.NewFromInt(100)

// 收益率字段形如 "1.23%"，转为小数 0.0123
// 空值视为缺失，返回NaN
func ParseReturn(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if IsMissing(s) {
		return math.NaN(), nil
	}

	if !strings.HasSuffix(s, "%") {
		return math.NaN(), fmt.Errorf("%w: %q has no percent sign", ErrMalformedReturn, s)
	}

	d, err := decimal.NewFromString(strings.TrimSpace(strings.TrimSuffix(s, "%")))
	if err != nil {
		return math.NaN(), fmt.Errorf("%w: %q", ErrMalformedReturn, s)
	}

	return d.Div(hundred).InexactFloat64(), nil
}

// 普通浮点字段，空值返回NaN
func ParseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if IsMissing(s) {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// 0/1标志字段，允许 "1"、"1.0"、"true"
func ParseFlag(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if IsMissing(s) {
		return 0, false
	}
	switch s {
	case "true":
		return 1, true
	case "false":
		return 0, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) {
		return int(f), true
	}
	return 0, false
}

func IsMissing(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "nan", "<nil>", "null", ".":
		return true
	}
	return false
}
