package model

import "time"

// Review 订单评价，一单一评（orderId 唯一），只允许已完成订单。
type Review struct {
	ID      string `gorm:"primaryKey;size:36" json:"id"`
	OrderID string `gorm:"uniqueIndex;size:36;not null" json:"orderId"`
	UserID  string `gorm:"index;size:36;not null" json:"userId"`

	Rating  int    `gorm:"not null" json:"rating"` // 1-5
	Content string `gorm:"size:500" json:"content,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Order *Order `gorm:"foreignKey:OrderID;references:ID" json:"order,omitempty"`
}

func (Review) TableName() string { return "reviews" }
