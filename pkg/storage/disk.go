// Package storage 提供上传文件的落盘、读取与校验。
//
// 数据库中只记录相对路径（如 applications/resumes/<uuid>.pdf），
// 物理位置由 Disk 的根目录决定。
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// 逻辑存储桶
const (
	BucketResumes     = "applications/resumes"
	BucketProposals   = "proposals/files"
	BucketGameMain    = "games/main"
	BucketScreenshots = "games/screenshots"
)

var (
	ErrNotFound    = errors.New("stored file not found")
	ErrInvalidPath = errors.New("invalid storage path")
)

// Object 打开的存储对象
type Object struct {
	io.ReadCloser
	Size int64
}

// Disk 文件存储抽象
type Disk interface {
	// Put 将上传内容写入 bucket，返回相对路径
	Put(ctx context.Context, bucket string, up *Upload) (string, error)
	// Open 打开相对路径对应的对象；不存在时返回 ErrNotFound
	Open(ctx context.Context, rel string) (*Object, error)
	// Delete 删除对象；对象不存在视为成功
	Delete(ctx context.Context, rel string) error
}

// LocalDisk 本地文件系统实现
type LocalDisk struct {
	root string
}

// NewLocalDisk 创建以 root 为根目录的本地存储
func NewLocalDisk(root string) (*LocalDisk, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("解析存储根目录失败: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("创建存储根目录失败: %w", err)
	}
	return &LocalDisk{root: abs}, nil
}

// Root 存储根目录绝对路径
func (d *LocalDisk) Root() string { return d.root }

func (d *LocalDisk) Put(ctx context.Context, bucket string, up *Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel := path.Join(bucket, uuid.New().String()+Ext(up.Name))
	full, err := d.resolve(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("创建存储目录失败: %w", err)
	}

	src, err := up.Open()
	if err != nil {
		return "", fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("创建文件失败: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(full)
		return "", fmt.Errorf("写入文件失败: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("写入文件失败: %w", err)
	}
	return rel, nil
}

func (d *LocalDisk) Open(_ context.Context, rel string) (*Object, error) {
	full, err := d.resolve(rel)
	if err != nil {
		return nil, ErrNotFound
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}
	return &Object{ReadCloser: f, Size: info.Size()}, nil
}

func (d *LocalDisk) Delete(_ context.Context, rel string) error {
	full, err := d.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// resolve 将相对路径映射到根目录下，拒绝越界路径
func (d *LocalDisk) resolve(rel string) (string, error) {
	if rel == "" || strings.Contains(rel, "\\") {
		return "", ErrInvalidPath
	}
	clean := path.Clean("/" + rel)
	if clean == "/" || clean != "/"+rel {
		return "", ErrInvalidPath
	}
	return filepath.Join(d.root, filepath.FromSlash(clean[1:])), nil
}

// Ext 返回小写扩展名（含点），无扩展名时为空
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
