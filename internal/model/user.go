package model

import "time"

// User 按手机号注册的用户。
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Phone        string    `gorm:"uniqueIndex;size:32;not null" json:"phone"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	PasswordSalt string    `gorm:"size:64;not null" json:"-"`
	Nickname     string    `gorm:"size:64" json:"nickname,omitempty"`
	Avatar       string    `gorm:"size:255" json:"avatar,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string { return "users" }
