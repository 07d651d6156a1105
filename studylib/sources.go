/*
- @Author: aztec
- @Date: 2024-01-18 14:02:26
- @Description: 根据配置创建数据源与输出
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package studylib

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aztecqt/eventstudy/common"
	"github.com/aztecqt/eventstudy/data"
	"github.com/aztecqt/eventstudy/data/local"
	"github.com/aztecqt/eventstudy/data/online"
)

// 本地文件源，事件与协变量总是从本地读取
func newLocalStore(lc *LaunchConfig) *local.Store {
	s := &local.Store{
		Files:        map[common.EventType]local.EventFiles{},
		ReleaseDates: map[common.EventType]time.Time{},
		IndexExUS:    lc.Index.ExUS,
		IndexLink:    lc.Index.Link,
		IndexUS:      lc.Index.US,
	}
	for _, et := range lc.EventTypes() {
		in := lc.Events[string(et)]
		s.Files[et] = local.EventFiles{Observations: in.Observations, Events: in.Events, Covariates: in.Covariates}
		if et.IsCDPRelease() {
			s.ReleaseDates[et] = lc.ReleaseDate(et)
		}
	}
	return s
}

func newSecuritiesSource(ctx context.Context, lc *LaunchConfig, store *local.Store) (data.SecuritiesSource, func(), error) {
	switch lc.Securities {
	case SourceKind_Postgres:
		pg, err := online.NewPostgresSecuritiesSource(ctx, lc.Postgres)
		if err != nil {
			return nil, nil, err
		}
		common.LogNormal(logPrefix, "securities source: %s", pg.String())
		return pg, pg.Close, nil
	case SourceKind_CSV:
		return store, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown securities source %q", lc.Securities)
}

func newIndexSource(lc *LaunchConfig, store *local.Store) (data.IndexSource, func(), error) {
	switch lc.Index.Kind {
	case SourceKind_Influx:
		var link map[string]string
		if lc.Index.Link != "" {
			l, err := local.LoadCodeLink(lc.Index.Link, "fic", "Region")
			if err != nil {
				return nil, nil, err
			}
			link = l
		}
		src, err := online.NewInfluxIndexSource(lc.Index.Influx, link)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { src.Close() }, nil
	case SourceKind_CSV:
		return store, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown index source %q", lc.Index.Kind)
}

// runId作为输出目录/前缀的一部分，避免不同批次互相覆盖
func newSink(lc *LaunchConfig, runId string) (data.Sink, error) {
	switch lc.Sink.Kind {
	case SinkKind_Minio:
		s, err := online.NewObjectSink(lc.Sink.Minio)
		if err != nil {
			return nil, err
		}
		return s.WithPrefix(lc.Name + "/" + runId), nil
	case SinkKind_File:
		return local.FileSink{Dir: filepath.Join(lc.Sink.Dir, lc.Name, runId)}, nil
	}
	return nil, fmt.Errorf("unknown sink %q", lc.Sink.Kind)
}
