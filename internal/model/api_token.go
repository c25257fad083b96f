package model

import "time"

// APIToken 访问令牌表，对应 api_tokens
// ExpiresAt 为空表示永不过期
type APIToken struct {
	ID        uint       `gorm:"primaryKey"                            json:"id"`
	UserID    uint       `gorm:"not null;index"                        json:"user_id"`
	Token     string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"-"`
	ExpiresAt *time.Time `                                             json:"expires_at"`
	BaseModel

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (APIToken) TableName() string { return "api_tokens" }

// ActiveAt 令牌在 now 时刻是否仍有效
func (t *APIToken) ActiveAt(now time.Time) bool {
	return t.ExpiresAt == nil || t.ExpiresAt.After(now)
}
