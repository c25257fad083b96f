package model

// RoleName 角色名（类型化枚举，鉴权中间件按此比较）
type RoleName string

const (
	RoleAdmin   RoleName = "admin"
	RoleManager RoleName = "manager"
)

// Valid 是否为已知角色
func (n RoleName) Valid() bool {
	switch n {
	case RoleAdmin, RoleManager:
		return true
	}
	return false
}

// Role 角色表，对应 roles（静态参考数据）
type Role struct {
	ID   uint     `gorm:"primaryKey"                             json:"id"`
	Name RoleName `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
	BaseModel
}

// TableName 指定表名
func (Role) TableName() string { return "roles" }
