package service

import (
	"errors"
	"sort"
	"strings"

	"recruit-hub/backend/pkg/storage"
)

// ValidationError 业务层字段校验失败（如原密码错误、上传文件被拒）
// 处理器将其映射为 422，Fields 以请求字段名为键
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// Add 追加一条字段错误
func (e *ValidationError) Add(field, msg string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}

// OrNil 没有任何字段错误时返回 nil
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// fieldError 单字段校验失败
func fieldError(field, msg string) *ValidationError {
	return (&ValidationError{}).Add(field, msg)
}

// AsValidationError 判断并提取 ValidationError
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// uploadError 将存储层的拒绝原因转换为字段错误
func uploadError(field string, err error) error {
	var rej *storage.RejectError
	if errors.As(err, &rej) {
		return fieldError(field, rej.Message)
	}
	return err
}
