/*
- @Author: aztec
- @Date: 2024-01-16 16:02:33
- @Description: 本地数据文件的通用读取
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package local

import (
	"compress/zlib"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var logPrefix = "local"

var LocalDataPath = ""

func Init(localDataPath string) {
	LocalDataPath = localDataPath
}

// 相对路径基于LocalDataPath
func ResolvePath(path string) string {
	if filepath.IsAbs(path) || LocalDataPath == "" {
		return path
	}
	return filepath.Join(LocalDataPath, path)
}

type zlibFile struct {
	io.ReadCloser
	f *os.File
}

func (z zlibFile) Close() error {
	z.ReadCloser.Close()
	return z.f.Close()
}

// 优先打开path.zlib，不存在则打开原始文件
func OpenZipOrRawFile(path string) (io.ReadCloser, error) {
	pathz := path + ".zlib"
	if f, err := os.Open(pathz); err == nil {
		if zr, err := zlib.NewReader(f); err == nil {
			return zlibFile{ReadCloser: zr, f: f}, nil
		} else {
			f.Close()
			return nil, fmt.Errorf("open %s: %w", pathz, err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// 读取csv为DataFrame，所有列按字符串读入，由调用方解析
func ReadCSVFrame(path string) (dataframe.DataFrame, error) {
	path = ResolvePath(path)
	r, err := OpenZipOrRawFile(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	df := dataframe.ReadCSV(r, dataframe.DetectTypes(false), dataframe.DefaultType(series.String))
	if df.Err != nil {
		return df, fmt.Errorf("read %s: %w", path, df.Err)
	}
	return df, nil
}

// 列名别名，原始文件中大小写、命名不统一
var columnAliases = map[string]string{
	"isin":           "ISIN",
	"date":           "EventDate",
	"eventdate":      "EventDate",
	"dates released": "EventDate",
	"marketdate":     "MarketDate",
	"infocode":       "InfoCode",
	"volume":         "Volume",
	"region":         "Region",
}

// 统一列名
func normalizeColumns(df dataframe.DataFrame) dataframe.DataFrame {
	for _, name := range df.Names() {
		if alias, ok := columnAliases[strings.ToLower(strings.TrimSpace(name))]; ok && alias != name {
			if slices.Contains(df.Names(), alias) {
				continue
			}
			df = df.Rename(alias, name)
		}
	}
	return df
}

// 取字符串列，不存在时返回nil
func column(df dataframe.DataFrame, names ...string) []string {
	for _, name := range names {
		if slices.Contains(df.Names(), name) {
			return df.Col(name).Records()
		}
	}
	return nil
}

func requireColumns(df dataframe.DataFrame, path string, names ...string) error {
	for _, name := range names {
		if !slices.Contains(df.Names(), name) {
			return fmt.Errorf("%s: missing column %s", path, name)
		}
	}
	return nil
}
