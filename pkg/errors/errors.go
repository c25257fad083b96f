package errors

import (
	"errors"

	"recruit-hub/backend/pkg/storage"
)

// ErrFileNotFound 存储对象不存在（行存在但文件已丢失同样适用）
var ErrFileNotFound = storage.ErrNotFound

// ErrRateLimited 请求过于频繁
var ErrRateLimited = errors.New("too many requests")

// IsFileNotFound 判断是否为存储对象缺失
func IsFileNotFound(err error) bool {
	return errors.Is(err, ErrFileNotFound)
}
