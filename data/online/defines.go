/*
- @Author: aztec
- @Date: 2024-01-16 18:40:02
- @Description: 在线数据源（数据库、对象存储）的公共定义
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package online

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

var logPrefix = "online"

// influx返回的数值可能是json.Number、float64或字符串
func toFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case nil:
		return math.NaN(), nil
	case json.Number:
		return x.Float64()
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return math.NaN(), fmt.Errorf("unexpected value type %T", v)
	}
}
