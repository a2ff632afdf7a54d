package model

import "time"

// Address 地址簿条目。同一用户最多一条 is_default=true，
// 由 address 服务在事务里清掉其它默认项来保证。
type Address struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"index;size:36;not null" json:"userId"`

	Name      string   `gorm:"size:64;not null" json:"name"`
	Phone     string   `gorm:"size:32;not null" json:"phone"`
	Province  string   `gorm:"size:32;not null" json:"province"`
	City      string   `gorm:"size:32;not null" json:"city"`
	District  string   `gorm:"size:32;not null" json:"district"`
	Detail    string   `gorm:"column:address;size:255;not null" json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	IsDefault bool     `gorm:"not null;default:false;index" json:"isDefault"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Address) TableName() string { return "addresses" }
