/*
- @Author: aztec
- @Date: 2024-01-18 16:30:45
- @Description:
- @研究库。加载各类事件的数据，逐个准备数据集，按计划执行全部检验，
- @并把汇总表、宽表、清单写入输出
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package studylib

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aztecqt/eventstudy/common"
	"github.com/aztecqt/eventstudy/data"
	"github.com/aztecqt/eventstudy/data/local"
	"github.com/aztecqt/eventstudy/study"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/uuid"
)

type StudyLib struct {
	// 配置
	lc *LaunchConfig

	// 本批次id
	runId string

	// 数据源与输出
	securities data.SecuritiesSource
	events     data.EventSource
	index      data.IndexSource
	sink       data.Sink
	closers    []func()

	// 已写出的表
	manifest []manifestEntry
}

type manifestEntry struct {
	table     string
	eventType common.EventType
	kind      string
	subgroup  string
	window    string
	estWindow string
	events    int
	rows      int
}

func NewStudyLib(ctx context.Context, lc *LaunchConfig) (*StudyLib, error) {
	s := &StudyLib{lc: lc, runId: uuid.New().String()}
	local.Init(lc.DataPath)

	store := newLocalStore(lc)
	s.events = store

	sec, closeSec, err := newSecuritiesSource(ctx, lc, store)
	if err != nil {
		return nil, err
	}
	s.securities = sec
	s.closers = append(s.closers, closeSec)

	idx, closeIdx, err := newIndexSource(lc, store)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.index = idx
	s.closers = append(s.closers, closeIdx)

	sink, err := newSink(lc, s.runId)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.sink = sink

	common.LogNormal(logPrefix, "study lib %s created, run id %s, output %v", lc.Name, s.runId, sink)
	return s, nil
}

func (s *StudyLib) RunId() string {
	return s.runId
}

func (s *StudyLib) Close() {
	for _, c := range s.closers {
		c()
	}
	s.closers = nil
}

// 执行研究。ets为空时执行所有已配置的事件类型
// dryRun只加载与准备数据集，不做检验
func (s *StudyLib) Run(ctx context.Context, ets []common.EventType, dryRun bool) error {
	if len(ets) == 0 {
		ets = s.lc.EventTypes()
	}
	if len(ets) == 0 {
		return fmt.Errorf("no event type to study")
	}

	start := time.Now()
	index, err := s.index.LoadMarketIndex(ctx)
	if err != nil {
		return fmt.Errorf("load market index: %w", err)
	}

	// step 1: 逐个准备数据集，任一失败则整个批次失败
	datasets := map[common.EventType]study.Dataset{}
	for _, et := range ets {
		ds, err := s.prepare(ctx, et, index)
		if err != nil {
			return err
		}
		datasets[et] = ds
	}

	if dryRun {
		common.LogNormal(logPrefix, "dry run, %d datasets prepared in %v", len(datasets), time.Since(start))
		return nil
	}

	// step 2: 按计划检验
	for _, et := range ets {
		summaries := s.runPlan(ctx, datasets[et], Plan(et))
		for _, gs := range summaries {
			common.LogNormal(logPrefix, "%s\n%s", gs.Name(), gs.ToTable().Render())
			if err := s.write(ctx, gs.Name(), gs.ToDataFrame(), manifestEntry{
				eventType: et,
				kind:      string(gs.Kind),
				subgroup:  gs.Subgroup,
				window:    gs.Window.String(),
				estWindow: estWindowName(gs),
				events:    gs.Events,
			}); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	// step 3: 宽表
	if s.lc.Panels {
		if df, ok := buildPanel("panel_cdp", cdpPanelColumns(), datasets, false); ok {
			if err := s.write(ctx, "panel_cdp", df, manifestEntry{eventType: common.EventType_CDP2021, kind: "panel"}); err != nil {
				return err
			}
		}
		if df, ok := buildPanel("panel_announce", announcePanelColumns(), datasets, true); ok {
			if err := s.write(ctx, "panel_announce", df, manifestEntry{eventType: common.EventType_TargetAnnounce, kind: "panel"}); err != nil {
				return err
			}
		}
	}

	// step 4: 清单
	if err := s.sink.Write(ctx, "manifest", s.manifestFrame()); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	common.LogNormal(logPrefix, "run %s finished, %d tables written in %v", s.runId, len(s.manifest), time.Since(start))
	return nil
}

// 加载 -> 选取事件 -> 构建数据集 -> 派生指标、市场模型、对齐
func (s *StudyLib) prepare(ctx context.Context, et common.EventType, index common.MarketIndex) (study.Dataset, error) {
	obs, err := s.securities.LoadObservations(ctx, et)
	if err != nil {
		return study.Dataset{}, fmt.Errorf("load %s observations: %w", et, err)
	}
	events, err := s.events.LoadEvents(ctx, et)
	if err != nil {
		return study.Dataset{}, fmt.Errorf("load %s events: %w", et, err)
	}
	covs, err := s.events.LoadCovariates(ctx, et)
	if err != nil {
		return study.Dataset{}, fmt.Errorf("load %s covariates: %w", et, err)
	}

	selected := data.SelectEvents(et, events, covs, s.lc.Exclude[string(et)])
	raw, ok, msg := data.BuildDataset(et, obs, selected, index, data.BuildOptions{MaxOffset: s.lc.MaxOffset})
	if !ok {
		return study.Dataset{}, fmt.Errorf("build %s dataset: %s", et, msg)
	}
	if missing := data.EventsWithoutData(raw, selected); len(missing) > 0 {
		common.LogNormal(logPrefix, "%s: %d events have no market data", et, len(missing))
	}

	ds, ok, msg := study.Prepare(et, raw)
	if !ok {
		return study.Dataset{}, fmt.Errorf("prepare %s dataset: %s", et, msg)
	}

	if s.lc.ExportDatasets {
		name := "ds_" + string(et)
		if err := s.write(ctx, name, data.PanelToDataFrame(ds.Full), manifestEntry{eventType: et, kind: "dataset", events: ds.Full.EventCount()}); err != nil {
			return study.Dataset{}, err
		}
	}
	return ds, nil
}

// 用有限个协程执行一组检验，结果按计划顺序返回
func (s *StudyLib) runPlan(ctx context.Context, ds study.Dataset, plan []TestSpec) []study.GroupSummary {
	results := make([]study.GroupSummary, len(plan))
	workers := max(s.lc.Workers, 1)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = runTest(ds, plan[i])
			}
		}()
	}

	for i := range plan {
		if ctx.Err() != nil {
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// 被取消时，未执行的检验不输出
	out := make([]study.GroupSummary, 0, len(results))
	for _, gs := range results {
		if gs.Kind != "" {
			out = append(out, gs)
		}
	}
	return out
}

func runTest(ds study.Dataset, t TestSpec) study.GroupSummary {
	if t.Kind == study.TestKind_Volume {
		return study.VolumeTest(ds, t.Window, t.Est, t.Subgroup)
	}
	return study.ReturnTest(ds, t.Window, t.Subgroup)
}

func estWindowName(gs study.GroupSummary) string {
	if gs.Kind == study.TestKind_Volume {
		return gs.EstWindow.String()
	}
	return ""
}

func (s *StudyLib) write(ctx context.Context, name string, df dataframe.DataFrame, entry manifestEntry) error {
	if err := s.sink.Write(ctx, name, df); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	entry.table = name
	entry.rows = df.Nrow()
	s.manifest = append(s.manifest, entry)
	return nil
}

func (s *StudyLib) manifestFrame() dataframe.DataFrame {
	n := len(s.manifest)
	runIds := make([]string, n)
	tables := make([]string, n)
	ets := make([]string, n)
	kinds := make([]string, n)
	subgroups := make([]string, n)
	windows := make([]string, n)
	estWindows := make([]string, n)
	events := make([]int, n)
	rows := make([]int, n)
	for i, e := range s.manifest {
		runIds[i] = s.runId
		tables[i] = e.table
		ets[i] = string(e.eventType)
		kinds[i] = e.kind
		subgroups[i] = e.subgroup
		windows[i] = e.window
		estWindows[i] = e.estWindow
		events[i] = e.events
		rows[i] = e.rows
	}

	return dataframe.New(
		series.New(runIds, series.String, "run_id"),
		series.New(tables, series.String, "table"),
		series.New(ets, series.String, "event_type"),
		series.New(kinds, series.String, "kind"),
		series.New(subgroups, series.String, "subgroup"),
		series.New(windows, series.String, "window"),
		series.New(estWindows, series.String, "est_window"),
		series.New(events, series.Int, "events"),
		series.New(rows, series.Int, "rows"),
	)
}
