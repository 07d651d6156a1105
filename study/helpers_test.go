package study

import (
	"math"
	"slices"
	"time"

	"github.com/aztecqt/eventstudy/common"
)

var testEventDate = time.Date(2021, 10, 11, 0, 0, 0, 0, time.UTC) // Monday

// 从事件日起前后移动k个工作日
func weekdayAt(event time.Time, k int) time.Time {
	d := event
	step := 1
	if k < 0 {
		step = -1
		k = -k
	}
	for k > 0 {
		d = d.AddDate(0, 0, step)
		if isWeekday(d) {
			k--
		}
	}
	return d
}

type synthFirm struct {
	isin    string
	outcome common.Outcome
	flags   map[string]int
	alpha   float64
	beta    float64
	shock   map[int]float64 // raw offset -> extra return
	volBump map[int]float64 // raw offset -> volume multiplier
	skip    map[int]bool    // raw offsets with no observation
}

func synthMarket(k int) float64 {
	return 0.01 * math.Sin(float64(k)*0.7)
}

// 生成[-140,15]的完整日线面板
func synthPanel(firms ...synthFirm) common.Panel {
	p := common.Panel{}
	for _, f := range firms {
		ev := &common.EventRecord{ISIN: f.isin, EventDate: testEventDate, Type: common.EventType_CDP2021, Outcome: f.outcome, Flags: f.flags}
		for k := -140; k <= 15; k++ {
			if f.skip[k] {
				continue
			}
			d := weekdayAt(testEventDate, k)
			mkt := synthMarket(k)
			vol := 1000 * (1 + 0.1*math.Cos(float64(k)))
			if m, ok := f.volBump[k]; ok {
				vol *= m
			}
			p = append(p, common.PanelRow{
				Key:          common.EventKey{ISIN: f.isin, EventDate: testEventDate},
				Event:        ev,
				Date:         d,
				Return:       f.alpha + f.beta*mkt + f.shock[k],
				MarketReturn: mkt,
				Volume:       vol,
				Shares:       1e6,
				RawOffset:    BusinessDayCount(testEventDate, d),
			})
		}
	}
	return p
}

func offsetsOf(p common.Panel) []int {
	out := make([]int, 0, len(p))
	for _, r := range p {
		out = append(out, r.NewOffset)
	}
	return out
}

func offsetsContiguous(g common.Panel) bool {
	offsets := offsetsOf(g)
	slices.Sort(offsets)
	for i := 1; i < len(offsets); i++ {
		if offsets[i] != offsets[i-1]+1 {
			return false
		}
	}
	return true
}
