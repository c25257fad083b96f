package model

// Proposal 商务提案表，对应 proposals
type Proposal struct {
	ID               uint         `gorm:"primaryKey"                                json:"id"`
	Name             string       `gorm:"type:varchar(255);not null"                json:"name"`
	Email            string       `gorm:"type:varchar(255);not null"                json:"email"`
	Subject          string       `gorm:"type:varchar(255);not null"                json:"subject"`
	Message          string       `gorm:"type:text;not null"                        json:"message"`
	FileSrc          *string      `gorm:"type:varchar(255)"                         json:"file_src"`
	FileName         *string      `gorm:"type:varchar(255)"                         json:"file_name"`
	Status           ReviewStatus `gorm:"type:varchar(20);not null;default:'новый'" json:"status"`
	PrivacyAgreement bool         `gorm:"not null;default:false"                    json:"privacy_agreement"`
	BaseModel
}

// TableName 指定表名
func (Proposal) TableName() string { return "proposals" }
