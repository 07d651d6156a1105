/*
- @Author: aztec
- @Date: 2024-01-18 10:20:19
- @Description: 研究库的配置定义
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package studylib

import (
	"github.com/aztecqt/eventstudy/data/online"
)

var logPrefix = "studylib"

// 数据源、输出的种类
const (
	SourceKind_CSV      = "csv"
	SourceKind_Influx   = "influx"
	SourceKind_Postgres = "postgres"
	SinkKind_File       = "file"
	SinkKind_Minio      = "minio"
)

type LaunchConfig struct {
	// 研究名称，用于输出目录/前缀
	Name string `toml:"name"`

	// 日志级别 trace/debug/info/warn/error
	LogLevel string `toml:"log_level"`

	// 同一事件类型内，并行执行检验的协程数
	Workers int `toml:"workers"`

	// 本地数据根目录，相对路径基于此目录
	DataPath string `toml:"data_path"`

	// 每种事件的输入文件，key为事件类型
	Events map[string]EventInput `toml:"events"`

	// CDP发布日期，key为事件类型，值为 2006-01-02
	ReleaseDates map[string]string `toml:"release_dates"`

	// 排除列表，key为事件类型，值为ISIN
	Exclude map[string][]string `toml:"exclude"`

	// 日线来源：csv/postgres
	Securities string                `toml:"securities"`
	Postgres   online.PostgresConfig `toml:"postgres"`

	// 市场指数
	Index IndexConfig `toml:"index"`

	// 输出
	Sink SinkConfig `toml:"sink"`

	// 距事件日的最大工作日数
	MaxOffset int `toml:"max_offset"`

	// 是否输出中间数据集 ds_<event>
	ExportDatasets bool `toml:"export_datasets"`

	// 是否输出宽表（CDP、目标公告）
	Panels bool `toml:"panels"`
}

type EventInput struct {
	Observations string `toml:"observations"`
	Events       string `toml:"events"`
	Covariates   string `toml:"covariates"`
}

type IndexConfig struct {
	Kind   string              `toml:"kind"` // csv/influx
	ExUS   string              `toml:"exus"`
	Link   string              `toml:"link"`
	US     string              `toml:"us"`
	Influx online.InfluxConfig `toml:"influx"`
}

type SinkConfig struct {
	Kind  string             `toml:"kind"` // file/minio
	Dir   string             `toml:"dir"`
	Minio online.MinioConfig `toml:"minio"`
}
