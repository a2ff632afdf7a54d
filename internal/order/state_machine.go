package order

import (
	"time"

	"github.com/SwiftParcel/SwiftParcel/internal/model"
)

// AllowTransition 定义订单状态机的允许流转关系（有向图）。
// COMPLETED / CANCELLED 是终态，没有出边。
var AllowTransition = map[model.OrderStatus][]model.OrderStatus{
	model.OrderPending:   {model.OrderConfirmed, model.OrderCancelled},
	model.OrderConfirmed: {model.OrderPickingUp, model.OrderCancelled},
	model.OrderPickingUp: {model.OrderInTransit},
	model.OrderInTransit: {model.OrderDelivered},
	model.OrderDelivered: {model.OrderCompleted},
	model.OrderCompleted: {},
	model.OrderCancelled: {},
}

// CanTransition 判断 from -> to 是否是允许的状态流转。纯查表，无副作用。
func CanTransition(from, to model.OrderStatus) bool {
	allowed, ok := AllowTransition[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// ApplyTransition 对订单应用状态变更；流入 COMPLETED 时顺带落完成时间。
// 非法流转返回 ErrInvalidTransition 且不改动订单。
func ApplyTransition(o *model.Order, to model.OrderStatus, now time.Time) error {
	if o == nil {
		return ErrNotFound
	}
	if !CanTransition(o.Status, to) {
		return ErrInvalidTransition
	}

	o.Status = to
	if to == model.OrderCompleted && o.CompletedAt == nil {
		t := now
		o.CompletedAt = &t
	}
	return nil
}

// canCancel 取消走独立的白名单：只有待处理/已确认可以取消，
// 取件开始后任何路径都不允许取消。
func canCancel(status model.OrderStatus) bool {
	return status == model.OrderPending || status == model.OrderConfirmed
}
