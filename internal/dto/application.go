package dto

import "mime/multipart"

// ── 求职申请 / 商务提案 DTO ──

// CreateApplicationRequest 提交求职申请（JSON 或 multipart）
type CreateApplicationRequest struct {
	Name             string                `json:"name"              form:"name"              binding:"required,max=255"`
	Email            string                `json:"email"             form:"email"             binding:"required,max=255,email"`
	Phone            *string               `json:"phone"             form:"phone"             binding:"omitempty,max=255"`
	Message          *string               `json:"message"           form:"message"`
	PrivacyAgreement Accepted              `json:"privacy_agreement" form:"privacy_agreement" binding:"accepted"`
	Resume           *multipart.FileHeader `json:"-"                 form:"resume"`
}

// CreateProposalRequest 提交商务提案（JSON 或 multipart）
type CreateProposalRequest struct {
	Name             string                `json:"name"              form:"name"              binding:"required,max=255"`
	Email            string                `json:"email"             form:"email"             binding:"required,max=255,email"`
	Subject          string                `json:"subject"           form:"subject"           binding:"required,max=255"`
	Message          string                `json:"message"           form:"message"           binding:"required"`
	PrivacyAgreement Accepted              `json:"privacy_agreement" form:"privacy_agreement" binding:"accepted"`
	Attachment       *multipart.FileHeader `json:"-"                 form:"attachment"`
}

// UpdateStatusRequest 修改处理状态；取值集合由业务层校验
type UpdateStatusRequest struct {
	Status string `json:"status" form:"status" binding:"required"`
}
