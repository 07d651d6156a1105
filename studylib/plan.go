/*
- @Author: aztec
- @Date: 2024-02-07 14:31:08
- @Description: 每种事件要做的检验：窗口 x 子样本
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package studylib

import (
	"fmt"

	"github.com/aztecqt/eventstudy/common"
	"github.com/aztecqt/eventstudy/study"
)

// 一项检验
type TestSpec struct {
	Kind     study.TestKind
	Window   study.Window
	Est      study.EstWindow // 仅成交量检验使用
	Subgroup study.Subgroup
}

func (t TestSpec) String() string {
	if t.Kind == study.TestKind_Volume {
		return fmt.Sprintf("%s %s %s est%s", t.Kind, t.Subgroup.Name, t.Window, t.Est)
	}
	return fmt.Sprintf("%s %s %s", t.Kind, t.Subgroup.Name, t.Window)
}

var (
	sgMaterial = study.FlagIs(common.Flag_Material, "material", 1)
	sgNonCovid = study.FlagIs(common.Flag_CovidIndustry, "noncovid", 0)

	sgAchieved        = study.OutcomeIs(common.Outcome_Achieved)
	sgFailed          = study.OutcomeIs(common.Outcome_Failed)
	sgDisappeared     = study.OutcomeIs(common.Outcome_Disappeared)
	sgDisappearedHigh = study.OutcomeIs(common.Outcome_DisappearedHigh)
	sgDisappearedLow  = study.OutcomeIs(common.Outcome_DisappearedLow)

	sgHighAmbition = study.And(sgFailed, study.FlagIs(common.Flag_HighAmbition, "high_ambition", 1))

	// CSR样本只有高目标标志，非高即低；CDP有单独的低目标标志
	sgLowAmbitionCSR = study.And(sgFailed, study.FlagIs(common.Flag_HighAmbition, "low_ambition", 0))
	sgLowAmbitionCDP = study.And(sgFailed, study.FlagIs(common.Flag_LowAmbition, "low_ambition", 1))
)

// 结果 + 重大排放行业/非新冠行业变体
func withVariants(outcomes ...study.Subgroup) []study.Subgroup {
	out := append([]study.Subgroup{}, outcomes...)
	for _, o := range outcomes {
		out = append(out, study.And(o, sgMaterial), study.And(o, sgNonCovid))
	}
	return out
}

// 落后/按期的排名子样本，标志带年份后缀
func lagSubgroups(year int) []study.Subgroup {
	behind := common.LagFlag(common.LagKind_Behind, year)
	return []study.Subgroup{
		study.FlagIs(behind, "lag_behind", 1),
		study.FlagIs(behind, "on_track", 0),
		study.FlagIs(common.LagFlag(common.LagKind_Top10, year), "lag_top10", 1),
		study.FlagIs(common.LagFlag(common.LagKind_Top20, year), "lag_top20", 1),
		study.FlagIs(common.LagFlag(common.LagKind_OnTrackTop10, year), "ontrack_top10", 1),
		study.FlagIs(common.LagFlag(common.LagKind_OnTrackTop20, year), "ontrack_top20", 1),
	}
}

func returnTests(w study.Window, sgs []study.Subgroup) []TestSpec {
	out := make([]TestSpec, 0, len(sgs))
	for _, sg := range sgs {
		out = append(out, TestSpec{Kind: study.TestKind_Return, Window: w, Subgroup: sg})
	}
	return out
}

func volumeTests(w study.Window, est study.EstWindow, sgs []study.Subgroup) []TestSpec {
	out := make([]TestSpec, 0, len(sgs))
	for _, sg := range sgs {
		out = append(out, TestSpec{Kind: study.TestKind_Volume, Window: w, Est: est, Subgroup: sg})
	}
	return out
}

// 事件类型对应的检验计划，顺序即输出顺序
func Plan(et common.EventType) []TestSpec {
	plan := []TestSpec{}
	switch et {
	case common.EventType_MediaCoverage:
		rets := append([]study.Subgroup{study.All(), sgDisappeared}, withVariants(sgAchieved, sgFailed)...)
		plan = append(plan, returnTests(study.Window_M1P10, rets)...)
		plan = append(plan, volumeTests(study.Window_M10P10, study.EstWindow_140_40, []study.Subgroup{sgAchieved, sgFailed, sgDisappeared})...)

	case common.EventType_CSRReport:
		rets := append(withVariants(sgFailed), sgHighAmbition, sgLowAmbitionCSR)
		plan = append(plan, returnTests(study.Window_M1P10, rets)...)
		plan = append(plan, volumeTests(study.Window_M10P10, study.EstWindow_140_40, []study.Subgroup{sgFailed})...)

	case common.EventType_CDP2021:
		sgs := append(withVariants(sgAchieved, sgFailed, sgDisappearedHigh, sgDisappearedLow), sgHighAmbition, sgLowAmbitionCDP)
		plan = append(plan, returnTests(study.Window_M1P3, sgs)...)
		plan = append(plan, returnTests(study.Window_M1P10, sgs)...)
		plan = append(plan, volumeTests(study.Window_M5P5, study.EstWindow_135_35, sgs)...)
		plan = append(plan, volumeTests(study.Window_M10P10, study.EstWindow_140_40, sgs)...)

	case common.EventType_CDP2020, common.EventType_CDP2019:
		year := 2020
		if et == common.EventType_CDP2019 {
			year = 2019
		}
		sgs := lagSubgroups(year)
		plan = append(plan, returnTests(study.Window_M1P10, sgs)...)
		plan = append(plan, volumeTests(study.Window_M10P10, study.EstWindow_140_40, sgs)...)

	case common.EventType_TargetAnnounce:
		sgs := []study.Subgroup{study.All(), sgAchieved, sgFailed, sgDisappeared}
		plan = append(plan, returnTests(study.Window_M1P10, sgs)...)
		plan = append(plan, volumeTests(study.Window_M10P10, study.EstWindow_140_40, sgs)...)
	}
	return plan
}
