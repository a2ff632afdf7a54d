package model

import "time"

// PaymentStatus 支付单自身的状态。
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// 支付方式标签。后端实现见 internal/payment。
const (
	MethodWechat = "wechat"
	MethodMock   = "mock"
)

// Payment 支付单。一个订单至多一条（orderId 唯一），首次发起支付时才创建。
type Payment struct {
	ID      string `gorm:"primaryKey;size:36" json:"id"`
	OrderID string `gorm:"uniqueIndex;size:36;not null" json:"orderId"`

	Amount        float64       `gorm:"not null" json:"amount"`
	PaymentMethod string        `gorm:"size:16;not null" json:"paymentMethod"`
	TransactionID string        `gorm:"size:64" json:"transactionId,omitempty"`
	Status        PaymentStatus `gorm:"type:varchar(16);index;not null;default:'PENDING'" json:"status"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
	PaidAt    *time.Time `json:"paidAt,omitempty"`

	Order *Order `gorm:"foreignKey:OrderID;references:ID" json:"order,omitempty"`
}

func (Payment) TableName() string { return "payments" }
