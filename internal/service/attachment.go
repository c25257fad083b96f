package service

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	pkgerrors "recruit-hub/backend/pkg/errors"
	"recruit-hub/backend/pkg/metrics"
	"recruit-hub/backend/pkg/storage"
)

// Download 待下载的存储对象
type Download struct {
	Name string // Content-Disposition 中使用的文件名
	Size int64
	Body io.ReadCloser
}

// attachments 上传文件的校验、落盘与清理
// 文件写入与数据库写入不在同一事务中：数据库失败时尽力删除刚写入的文件，
// 残留的孤儿文件视为可接受的泄漏
type attachments struct {
	disk   storage.Disk
	logger *zap.Logger
}

func newAttachments(disk storage.Disk, logger *zap.Logger) *attachments {
	return &attachments{disk: disk, logger: logger}
}

// store 校验并保存上传文件，返回相对路径；校验失败返回以 field 为键的 ValidationError
func (a *attachments) store(ctx context.Context, bucket string, rule storage.Rule, field string, up *storage.Upload) (string, error) {
	if err := rule.Check(up); err != nil {
		metrics.RecordUpload(bucket, "rejected")
		return "", uploadError(field, err)
	}
	rel, err := a.disk.Put(ctx, bucket, up)
	if err != nil {
		metrics.RecordUpload(bucket, "failed")
		a.logger.Error("保存上传文件失败", zap.String("bucket", bucket), zap.Error(err))
		return "", err
	}
	metrics.RecordUpload(bucket, "stored")
	return rel, nil
}

// remove 尽力删除存储对象，失败仅记录日志
func (a *attachments) remove(ctx context.Context, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := a.disk.Delete(ctx, p); err != nil {
			a.logger.Warn("删除存储文件失败", zap.String("path", p), zap.Error(err))
		}
	}
}

// open 打开存储对象；对象缺失时返回 ErrFileNotFound
func (a *attachments) open(ctx context.Context, rel, name string) (*Download, error) {
	obj, err := a.disk.Open(ctx, rel)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, pkgerrors.ErrFileNotFound
		}
		a.logger.Error("打开存储文件失败", zap.String("path", rel), zap.Error(err))
		return nil, err
	}
	return &Download{Name: name, Size: obj.Size, Body: obj}, nil
}
