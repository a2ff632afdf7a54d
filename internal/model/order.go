package model

import "time"

// OrderStatus 订单生命周期状态（持久化为字符串）。
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"    // 已下单，待确认
	OrderConfirmed OrderStatus = "CONFIRMED"  // 已确认（通常由支付成功触发）
	OrderPickingUp OrderStatus = "PICKING_UP" // 取件中
	OrderInTransit OrderStatus = "IN_TRANSIT" // 配送中
	OrderDelivered OrderStatus = "DELIVERED"  // 已送达，待用户确认
	OrderCompleted OrderStatus = "COMPLETED"  // 已完成（终态）
	OrderCancelled OrderStatus = "CANCELLED"  // 已取消（终态）
)

// PaymentState 订单侧的支付状态。
type PaymentState string

const (
	PayUnpaid   PaymentState = "UNPAID"
	PayPaid     PaymentState = "PAID"
	PayRefunded PaymentState = "REFUNDED"
)

// ServiceTier 服务档位，决定基础价。
type ServiceTier string

const (
	TierStandard ServiceTier = "STANDARD"
	TierExpress  ServiceTier = "EXPRESS"
	TierPremium  ServiceTier = "PREMIUM"
)

// Order 代取订单。价格四项在创建时一次性算定，之后不再重算。
type Order struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	UserID    string `gorm:"index;size:36;not null" json:"userId"`
	StationID string `gorm:"index;size:36;not null" json:"stationId"`

	RecipientName   string   `gorm:"size:64;not null" json:"recipientName"`
	RecipientPhone  string   `gorm:"size:32;not null" json:"recipientPhone"`
	PickupCode      string   `gorm:"size:32" json:"pickupCode,omitempty"`
	DeliveryAddress string   `gorm:"size:255;not null" json:"deliveryAddress"`
	DeliveryLat     *float64 `json:"deliveryLat,omitempty"`
	DeliveryLng     *float64 `json:"deliveryLng,omitempty"`
	Remarks         string   `gorm:"size:255" json:"remarks,omitempty"`

	ServiceType ServiceTier `gorm:"type:varchar(16);not null;default:'STANDARD'" json:"serviceType"`
	IsUrgent    bool        `gorm:"not null;default:false" json:"isUrgent"`

	// 价格明细（单位：元，保留两位小数）
	BasePrice     float64 `gorm:"not null;default:0" json:"basePrice"`
	Distance      float64 `gorm:"not null;default:0" json:"distance"`
	DistancePrice float64 `gorm:"not null;default:0" json:"distancePrice"`
	UrgentFee     float64 `gorm:"not null;default:0" json:"urgentFee"`
	TotalPrice    float64 `gorm:"not null;default:0" json:"totalPrice"`

	Status        OrderStatus  `gorm:"type:varchar(16);index;not null;default:'PENDING'" json:"status"`
	PaymentStatus PaymentState `gorm:"type:varchar(16);index;not null;default:'UNPAID'" json:"paymentStatus"`

	// 乐观锁版本号，状态流转时 CAS 递增，避免并发更新互相覆盖。
	Version int64 `gorm:"not null;default:0" json:"-"`

	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	Station *Station `gorm:"foreignKey:StationID" json:"station,omitempty"`
	Payment *Payment `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
	Review  *Review  `gorm:"foreignKey:OrderID" json:"review,omitempty"`
}

func (Order) TableName() string { return "orders" }
