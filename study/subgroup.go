/*
- @Author: aztec
- @Date: 2024-02-05 09:40:13
- @Description: 子样本条件
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package study

import (
	"slices"
	"strings"

	"github.com/aztecqt/eventstudy/common"
)

// 子样本：名称 + 事件级条件
type Subgroup struct {
	Name  string
	match func(ev *common.EventRecord) bool
}

func NewSubgroup(name string, fn func(ev *common.EventRecord) bool) Subgroup {
	return Subgroup{Name: name, match: fn}
}

func (s Subgroup) Match(ev *common.EventRecord) bool {
	if s.match == nil {
		return true
	}
	return ev != nil && s.match(ev)
}

// 全样本
func All() Subgroup {
	return Subgroup{Name: "all"}
}

func OutcomeIs(outcomes ...common.Outcome) Subgroup {
	names := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		names = append(names, string(o))
	}
	return NewSubgroup(strings.Join(names, "_or_"), func(ev *common.EventRecord) bool {
		return slices.Contains(outcomes, ev.Outcome)
	})
}

func FlagIs(name string, label string, v int) Subgroup {
	return NewSubgroup(label, func(ev *common.EventRecord) bool {
		return ev.FlagIs(name, v)
	})
}

// 所有条件同时满足，名称用下划线拼接
func And(subgroups ...Subgroup) Subgroup {
	names := make([]string, 0, len(subgroups))
	for _, s := range subgroups {
		if s.match != nil {
			names = append(names, s.Name)
		}
	}
	name := strings.Join(names, "_")
	if name == "" {
		name = "all"
	}
	return NewSubgroup(name, func(ev *common.EventRecord) bool {
		for _, s := range subgroups {
			if !s.Match(ev) {
				return false
			}
		}
		return true
	})
}

// 改名
func (s Subgroup) As(name string) Subgroup {
	s.Name = name
	return s
}
