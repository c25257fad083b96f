package storage

import (
	"bytes"
	"io"
	"mime/multipart"
)

// Upload 一个待保存的上传文件
type Upload struct {
	Name string // 客户端提供的原始文件名
	Size int64
	open func() (io.ReadCloser, error)
}

// Open 打开上传内容
func (u *Upload) Open() (io.ReadCloser, error) {
	return u.open()
}

// FromFileHeader 从 multipart 表单文件构造 Upload
func FromFileHeader(fh *multipart.FileHeader) *Upload {
	if fh == nil {
		return nil
	}
	return &Upload{
		Name: fh.Filename,
		Size: fh.Size,
		open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// FromBytes 从内存数据构造 Upload
func FromBytes(name string, data []byte) *Upload {
	return &Upload{
		Name: name,
		Size: int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}
