/*
- @Author: aztec
- @Date: 2024-02-07 10:05:12
- @Description: 配置加载。优先级：默认值 -> 配置文件 -> 环境变量
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package studylib

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aztecqt/eventstudy/common"
	"github.com/aztecqt/eventstudy/data"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

var ErrUnknownEventType = errors.New("unknown event type")

// CDP发布日期默认值
var defaultReleaseDates = map[common.EventType]string{
	common.EventType_CDP2019: "2019-10-31",
	common.EventType_CDP2020: "2020-10-12",
	common.EventType_CDP2021: "2021-10-11",
}

func NewDefaultLaunchConfig() *LaunchConfig {
	lc := &LaunchConfig{
		Name:         "eventstudy",
		LogLevel:     "info",
		Workers:      1,
		Events:       map[string]EventInput{},
		ReleaseDates: map[string]string{},
		Exclude:      map[string][]string{},
		Securities:   SourceKind_CSV,
		Index:        IndexConfig{Kind: SourceKind_CSV},
		Sink:         SinkConfig{Kind: SinkKind_File, Dir: "output"},
		MaxOffset:    data.DefaultMaxOffset,
		Panels:       true,
	}
	for et, d := range defaultReleaseDates {
		lc.ReleaseDates[string(et)] = d
	}
	return lc
}

// 加载配置。path为空时只使用默认值和环境变量
// 当前目录下的.env会先被加载到环境变量中
func LoadLaunchConfig(path string) (*LaunchConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	lc := NewDefaultLaunchConfig()
	if path != "" {
		p, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand %s: %w", path, err)
		}

		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", p, err)
		}

		if err := toml.Unmarshal(b, lc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", p, err)
		}
	}

	applyEnvOverrides(lc)
	if err := lc.expandPaths(); err != nil {
		return nil, err
	}
	if err := lc.Validate(); err != nil {
		return nil, err
	}
	return lc, nil
}

// EVENTSTUDY_* 环境变量覆盖配置
func applyEnvOverrides(lc *LaunchConfig) {
	if v := os.Getenv("EVENTSTUDY_LOG_LEVEL"); v != "" {
		lc.LogLevel = v
	}
	if v := os.Getenv("EVENTSTUDY_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			lc.Workers = n
		}
	}
	if v := os.Getenv("EVENTSTUDY_DATA_PATH"); v != "" {
		lc.DataPath = v
	}
	if v := os.Getenv("EVENTSTUDY_OUTPUT_DIR"); v != "" {
		lc.Sink.Dir = v
	}
	if v := os.Getenv("EVENTSTUDY_POSTGRES_DSN"); v != "" {
		lc.Postgres.DSN = v
	}
	if v := os.Getenv("EVENTSTUDY_INFLUX_PASSWORD"); v != "" {
		lc.Index.Influx.Password = v
	}
	if v := os.Getenv("EVENTSTUDY_MINIO_ACCESS_KEY"); v != "" {
		lc.Sink.Minio.AccessKey = v
	}
	if v := os.Getenv("EVENTSTUDY_MINIO_SECRET_KEY"); v != "" {
		lc.Sink.Minio.SecretKey = v
	}
}

func (lc *LaunchConfig) expandPaths() error {
	var err error
	expand := func(p *string) {
		if err != nil || *p == "" {
			return
		}
		*p, err = homedir.Expand(*p)
	}

	expand(&lc.DataPath)
	expand(&lc.Sink.Dir)
	expand(&lc.Index.ExUS)
	expand(&lc.Index.Link)
	expand(&lc.Index.US)
	for k, in := range lc.Events {
		expand(&in.Observations)
		expand(&in.Events)
		expand(&in.Covariates)
		lc.Events[k] = in
	}
	if err != nil {
		return fmt.Errorf("failed to expand paths: %w", err)
	}
	return nil
}

func (lc *LaunchConfig) Validate() error {
	for k := range lc.Events {
		if _, ok := common.ParseEventType(k); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownEventType, k)
		}
	}
	for k := range lc.Exclude {
		if _, ok := common.ParseEventType(k); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownEventType, k)
		}
	}
	for k, d := range lc.ReleaseDates {
		if _, ok := common.ParseEventType(k); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownEventType, k)
		}
		if _, err := common.ParseDate(d); err != nil {
			return fmt.Errorf("release date of %s: %w", k, err)
		}
	}

	if lc.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", lc.Workers)
	}

	switch lc.Securities {
	case SourceKind_CSV:
	case SourceKind_Postgres:
		if lc.Postgres.DSN == "" {
			return errors.New("postgres securities source needs a dsn")
		}
	default:
		return fmt.Errorf("unknown securities source %q", lc.Securities)
	}

	switch lc.Index.Kind {
	case SourceKind_CSV:
		if lc.Index.ExUS == "" && lc.Index.US == "" {
			return errors.New("csv market index needs exus or us file")
		}
	case SourceKind_Influx:
		if lc.Index.Influx.Addr == "" {
			return errors.New("influx market index needs an addr")
		}
	default:
		return fmt.Errorf("unknown index source %q", lc.Index.Kind)
	}

	switch lc.Sink.Kind {
	case SinkKind_File:
		if lc.Sink.Dir == "" {
			return errors.New("file sink needs a dir")
		}
	case SinkKind_Minio:
		if lc.Sink.Minio.Endpoint == "" || lc.Sink.Minio.Bucket == "" {
			return errors.New("minio sink needs endpoint and bucket")
		}
	default:
		return fmt.Errorf("unknown sink %q", lc.Sink.Kind)
	}
	return nil
}

// 已配置输入的事件类型，按固定顺序排列
func (lc *LaunchConfig) EventTypes() []common.EventType {
	ets := []common.EventType{}
	for _, et := range common.AllEventTypes {
		if _, ok := lc.Events[string(et)]; ok {
			ets = append(ets, et)
		}
	}
	return ets
}

// 固定事件日期，非CDP事件返回零值
func (lc *LaunchConfig) ReleaseDate(et common.EventType) time.Time {
	if !et.IsCDPRelease() {
		return time.Time{}
	}
	if d, ok := lc.ReleaseDates[string(et)]; ok {
		if t, err := common.ParseDate(d); err == nil {
			return common.DateOf(t)
		}
	}
	t, _ := common.ParseDate(defaultReleaseDates[et])
	return common.DateOf(t)
}

// 解析 -only 参数，例如 "media,cdp2021"
func ParseEventTypes(s string) ([]common.EventType, error) {
	ets := []common.EventType{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		et, ok := common.ParseEventType(part)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, part)
		}
		ets = append(ets, et)
	}
	return ets, nil
}
