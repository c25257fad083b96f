package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"recruit-hub/backend/internal/service"
	"recruit-hub/backend/pkg/response"
)

func init() {
	registerValidators()
}

// registerValidators 注册字段名映射与自定义规则
// 字段名取 json 标签，其次 form 标签，使错误键与请求字段一致
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	// accepted: 勾选类字段必须为真
	_ = v.RegisterValidation("accepted", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		return f.Kind() == reflect.Bool && f.Bool()
	})
}

// ── 请求绑定 ──

// bindJSON 绑定 JSON 请求体；空请求体按零值校验，使缺失字段得到逐字段错误
func bindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(obj)
	}
	if err == nil {
		return true
	}
	writeBindError(c, err)
	return false
}

// bindAny 按 Content-Type 绑定 JSON、urlencoded 或 multipart 请求
func bindAny(c *gin.Context, obj any) bool {
	if c.ContentType() == binding.MIMEJSON || c.Request.ContentLength == 0 {
		return bindJSON(c, obj)
	}
	if err := c.ShouldBind(obj); err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}

// writeBindError 将绑定/校验错误写为统一响应
func writeBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &verrs):
		response.ValidationFailed(c, translate(verrs))
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			response.BadRequest(c, "Malformed request body")
			return
		}
		response.ValidationFailed(c, map[string][]string{
			field: {fmt.Sprintf("The %s is invalid.", humanize(field))},
		})
	case errors.As(err, &tooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBadRequest, "Request body too large")
	default:
		_ = c.Error(err)
		response.BadRequest(c, "Malformed request body")
	}
}

// writeValidation 业务层字段错误 → 422
func writeValidation(c *gin.Context, err error) bool {
	if verr, ok := service.AsValidationError(err); ok {
		response.ValidationFailed(c, verr.Fields)
		return true
	}
	return false
}

// ── 错误文案 ──

var indexPattern = regexp.MustCompile(`\[(\d+)\]`)

// translate 将校验错误转换为以字段路径为键的提示
// 嵌套路径形如 responsibilities.0.text
func translate(verrs validator.ValidationErrors) map[string][]string {
	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		key := fieldKey(fe.Namespace())
		fields[key] = append(fields[key], message(key, fe))
	}
	return fields
}

func fieldKey(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	return indexPattern.ReplaceAllString(namespace, ".$1")
}

func humanize(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

func message(key string, fe validator.FieldError) string {
	name := humanize(key)
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", name)
	case "url":
		return fmt.Sprintf("The %s must be a valid URL.", name)
	case "accepted":
		return fmt.Sprintf("The %s must be accepted.", name)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", name)
	case "max":
		if isString {
			return fmt.Sprintf("The %s must not be greater than %s characters.", name, fe.Param())
		}
		return fmt.Sprintf("The %s must not be greater than %s.", name, fe.Param())
	case "min":
		if isString {
			if fe.Param() == "1" {
				return fmt.Sprintf("The %s field is required.", name)
			}
			return fmt.Sprintf("The %s must be at least %s characters.", name, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", name, fe.Param())
	default:
		return fmt.Sprintf("The %s is invalid.", name)
	}
}
