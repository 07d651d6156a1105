/*
- @Author: aztec
- @Date: 2024-02-06 09:47:30
- @Description: 结果表写入对象存储
- @
- @Copyright (c) 2024 by aztec, All Rights Reserved.
*/
package online

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aztecqt/eventstudy/common"
	"github.com/go-gota/gota/dataframe"
	"github.com/minio/minio-go/v6"
)

type MinioConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Secure    bool   `toml:"secure"`
	Bucket    string `toml:"bucket"`
	Location  string `toml:"location"`
	Prefix    string `toml:"prefix"`
}

// 每张结果表存为 bucket/prefix/name.csv
type ObjectSink struct {
	cfg    MinioConfig
	client *minio.Client
}

// 桶不存在时自动创建
func NewObjectSink(cfg MinioConfig) (*ObjectSink, error) {
	c, err := minio.New(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.Secure)
	if err != nil {
		return nil, fmt.Errorf("connect minio %s: %w", cfg.Endpoint, err)
	}

	exists, err := c.BucketExists(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := c.MakeBucket(cfg.Bucket, cfg.Location); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		common.LogNormal(logPrefix, "bucket %s created", cfg.Bucket)
	}
	return &ObjectSink{cfg: cfg, client: c}, nil
}

// 带前缀的对象名
func (s *ObjectSink) WithPrefix(prefix string) *ObjectSink {
	out := *s
	out.cfg.Prefix = path.Join(s.cfg.Prefix, prefix)
	return &out
}

func objectName(prefix, name string) string {
	return path.Join(prefix, name+".csv")
}

func (s *ObjectSink) Write(ctx context.Context, name string, df dataframe.DataFrame) error {
	buf := &bytes.Buffer{}
	if err := df.WriteCSV(buf); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	obj := objectName(s.cfg.Prefix, name)
	_, err := s.client.PutObjectWithContext(ctx, s.cfg.Bucket, obj, buf, int64(buf.Len()), minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", s.cfg.Bucket, obj, err)
	}
	return nil
}

func (s *ObjectSink) String() string {
	return fmt.Sprintf("minio:%s/%s", s.cfg.Bucket, s.cfg.Prefix)
}
