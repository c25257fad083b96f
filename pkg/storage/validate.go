package storage

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const mib = 1 << 20

func init() {
	// pdfcpu 默认会在用户目录写配置文件
	api.DisableConfigDir()
}

// RejectError 上传文件未通过校验，Message 可直接返回给客户端
type RejectError struct {
	Message string
}

func (e *RejectError) Error() string { return e.Message }

func reject(format string, args ...any) error {
	return &RejectError{Message: fmt.Sprintf(format, args...)}
}

// Rule 上传校验规则
type Rule struct {
	MaxBytes int64
	// 扩展名（不含点）→ 允许的嗅探 MIME 类型
	Types map[string][]string
	// 额外的结构校验，按扩展名触发
	Inspect map[string]func(data []byte) error
}

var (
	ResumeRule = Rule{
		MaxBytes: 5 * mib,
		Types: map[string][]string{
			"pdf":  {"application/pdf"},
			"doc":  {"application/msword", "application/x-ole-storage"},
			"docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
		},
		Inspect: map[string]func([]byte) error{
			"pdf": inspectPDF,
		},
	}

	AttachmentRule = Rule{
		MaxBytes: 20 * mib,
		Types: map[string][]string{
			"pdf":  {"application/pdf"},
			"doc":  {"application/msword", "application/x-ole-storage"},
			"docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
			"zip":  {"application/zip"},
			"rar":  {"application/x-rar-compressed", "application/vnd.rar"},
		},
	}

	ImageRule = Rule{
		MaxBytes: 4 * mib,
		Types: map[string][]string{
			"jpg":  {"image/jpeg"},
			"jpeg": {"image/jpeg"},
			"png":  {"image/png"},
			"gif":  {"image/gif"},
			"bmp":  {"image/bmp"},
			"svg":  {"image/svg+xml"},
			"webp": {"image/webp"},
		},
	}
)

// Extensions 允许的扩展名，按字母序
func (r Rule) Extensions() []string {
	exts := make([]string, 0, len(r.Types))
	for ext := range r.Types {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Check 校验上传文件的大小、扩展名与实际内容类型
func (r Rule) Check(up *Upload) error {
	if up == nil {
		return reject("file is required")
	}
	ext := strings.TrimPrefix(Ext(up.Name), ".")
	allowed, ok := r.Types[ext]
	if !ok {
		return reject("The file must be a file of type: %s.", strings.Join(r.Extensions(), ", "))
	}
	if up.Size <= 0 {
		return reject("The file must not be empty.")
	}
	if up.Size > r.MaxBytes {
		return reject("The file may not be greater than %d kilobytes.", r.MaxBytes/1024)
	}

	src, err := up.Open()
	if err != nil {
		return fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, r.MaxBytes+1))
	if err != nil {
		return fmt.Errorf("读取上传文件失败: %w", err)
	}
	if int64(len(data)) > r.MaxBytes {
		return reject("The file may not be greater than %d kilobytes.", r.MaxBytes/1024)
	}
	if len(data) == 0 {
		return reject("The file must not be empty.")
	}

	if !matchesAny(mimetype.Detect(data), allowed) {
		return reject("The file content does not match its extension.")
	}
	if inspect := r.Inspect[ext]; inspect != nil {
		if err := inspect(data); err != nil {
			return err
		}
	}
	return nil
}

// matchesAny 检测到的类型或其任一父类型命中允许列表
func matchesAny(m *mimetype.MIME, allowed []string) bool {
	for cur := m; cur != nil; cur = cur.Parent() {
		for _, a := range allowed {
			if cur.Is(a) {
				return true
			}
		}
	}
	return false
}

func inspectPDF(data []byte) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return reject("The file is not a valid PDF document.")
	}
	return nil
}
