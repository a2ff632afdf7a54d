package order

import "errors"

// 领域错误，handler 层据此映射 HTTP 状态码。
var (
	ErrNotFound          = errors.New("订单不存在")
	ErrStationNotFound   = errors.New("快递站不存在")
	ErrInvalidTransition = errors.New("订单状态不能转换为此状态")
	ErrCannotCancel      = errors.New("此订单状态不能取消")
	ErrConflict          = errors.New("订单正在被并发修改，请重试")
)
