package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/SwiftParcel/SwiftParcel/internal/model"
)

// LaunchParams 前端调起微信支付所需的参数。
type LaunchParams struct {
	AppID     string `json:"appId"`
	TimeStamp string `json:"timeStamp"`
	NonceStr  string `json:"nonceStr"`
	Package   string `json:"package"`
	SignType  string `json:"signType"`
	PaySign   string `json:"paySign"`
}

// CreateResult 后端发起支付后返回给前端的凭据。
// 模拟支付填 PaymentURL/QRCode/ExpiresAt，微信支付填 WechatParams。
type CreateResult struct {
	PaymentURL   string        `json:"paymentUrl,omitempty"`
	QRCode       string        `json:"qrCode,omitempty"`
	ExpiresAt    *time.Time    `json:"expiresAt,omitempty"`
	WechatParams *LaunchParams `json:"wechatParams,omitempty"`
}

// CallbackResult 支付渠道回调的处理结论。
type CallbackResult struct {
	Success       bool
	Message       string
	PaymentID     string // 命中的支付单，Success 时非空
	TransactionID string // 渠道流水号，可能为空
}

// RefundResult 退款申请结果。
type RefundResult struct {
	RefundID string `json:"refundId"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

// Backend 支付渠道。实现集固定在本包内（mock / wechat），
// 通过 isBackend 封闭接口，新渠道必须在这里登记。
type Backend interface {
	// Method 渠道标签，对应 Payment.PaymentMethod。
	Method() string

	// CreatePayment 在渠道侧为支付单生成支付凭据。支付单本身已由编排层落库。
	CreatePayment(ctx context.Context, p *model.Payment, description string) (*CreateResult, error)

	// HandleCallback 校验并解析渠道回调。落库由编排层在事务里完成。
	HandleCallback(ctx context.Context, data map[string]any) (*CallbackResult, error)

	// Refund 在渠道侧发起退款。不支持退款的渠道返回错误。
	Refund(ctx context.Context, p *model.Payment, amount float64, reason string) (*RefundResult, error)

	isBackend()
}

// Registry 按 method 查渠道。
type Registry struct {
	backends map[string]Backend
}

func NewRegistry(backends ...Backend) *Registry {
	r := &Registry{backends: make(map[string]Backend, len(backends))}
	for _, b := range backends {
		r.backends[b.Method()] = b
	}
	return r
}

func (r *Registry) Get(method string) (Backend, error) {
	b, ok := r.backends[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
	return b, nil
}
