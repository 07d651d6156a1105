/*
- @Author: aztec
- @Date: 2024-02-04 11:40:15
- @Description: 结果表写入本地目录
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
)

type FileSink struct {
	Dir string
}

// 写入 Dir/name.csv，目录不存在时自动创建
func (s FileSink) Write(ctx context.Context, name string, df dataframe.DataFrame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", s.Dir, err)
	}

	path := filepath.Join(s.Dir, name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := df.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func (s FileSink) String() string {
	return "file:" + s.Dir
}
