package payment

import "errors"

var (
	ErrNotFound         = errors.New("支付记录不存在")
	ErrOrderNotFound    = errors.New("订单不存在")
	ErrOrderNotPayable  = errors.New("订单已支付或状态异常")
	ErrAlreadyPaid      = errors.New("该订单已支付")
	ErrPaidCannotCancel = errors.New("订单已支付，无法取消")
	ErrNotPaid          = errors.New("订单未支付，无法退款")
	ErrMockOnly         = errors.New("只有模拟支付可以使用此方法")
	ErrUnknownMethod    = errors.New("不支持的支付方式")
	ErrConflict         = errors.New("订单正在被并发修改，请重试")
)
