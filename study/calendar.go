/*
- @Author: aztec
- @Date: 2024-02-03 14:20:11
- @Description: 工作日计数。只排除周末，不考虑节假日
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package study

import (
	"time"

	"github.com/aztecqt/eventstudy/common"
)

// 统计 [begin, end) 中的工作日数量；end早于begin时统计 [end, begin) 并取负
// 与numpy.busday_count一致
func BusinessDayCount(begin, end time.Time) int {
	b := common.DateOf(begin)
	e := common.DateOf(end)
	if e.Before(b) {
		return -countWeekdays(e, b)
	}
	return countWeekdays(b, e)
}

func countWeekdays(b, e time.Time) int {
	days := int(e.Sub(b).Hours()/24 + 0.5)
	n := days / 7 * 5
	d := b.AddDate(0, 0, days/7*7)
	for i := 0; i < days%7; i++ {
		if isWeekday(d) {
			n++
		}
		d = d.AddDate(0, 0, 1)
	}
	return n
}

func isWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
