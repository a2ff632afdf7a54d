package payment

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/SwiftParcel/SwiftParcel/internal/common/config"
	"github.com/SwiftParcel/SwiftParcel/internal/common/logger"
	"github.com/SwiftParcel/SwiftParcel/internal/model"
	rd "github.com/redis/go-redis/v9"
)

// MockBackend 模拟支付渠道，面向开发和测试环境，不依赖第三方支付平台。
// 支付由用户在前端点"确认支付"完成（见 Service.Confirm），没有异步回调。
type MockBackend struct {
	cfg *config.Config
	rdb *rd.Client
	log logger.Logger
}

func NewMockBackend(cfg *config.Config, rdb *rd.Client, log logger.Logger) *MockBackend {
	return &MockBackend{cfg: cfg, rdb: rdb, log: log}
}

func (b *MockBackend) Method() string { return model.MethodMock }

func (b *MockBackend) isBackend() {}

// CreatePayment 生成模拟支付链接和二维码。过期时间只是给前端的提示，
// 服务端不清扫过期支付单；Redis 里留一个同 TTL 的 key 方便前端轮询探测。
func (b *MockBackend) CreatePayment(ctx context.Context, p *model.Payment, description string) (*CreateResult, error) {
	ttl := time.Duration(b.cfg.Payment.MockExpireMinute) * time.Minute
	expiresAt := time.Now().Add(ttl)

	if b.rdb != nil {
		key := fmt.Sprintf("payment:mock:pending:%s", p.ID)
		if err := b.rdb.Set(ctx, key, p.OrderID, ttl).Err(); err != nil && b.log != nil {
			b.log.Warnf("set mock payment expiry key failed: %v", err)
		}
	}

	return &CreateResult{
		PaymentURL: fmt.Sprintf("/payment/mock/%s", p.ID),
		QRCode:     mockQRCode(p.Amount),
		ExpiresAt:  &expiresAt,
	}, nil
}

// HandleCallback 模拟支付没有渠道回调。
func (b *MockBackend) HandleCallback(ctx context.Context, data map[string]any) (*CallbackResult, error) {
	return &CallbackResult{Success: false, Message: "模拟支付不需要回调"}, nil
}

// Refund 渠道侧无真实资金流，直接返回成功，落库由编排层完成。
func (b *MockBackend) Refund(ctx context.Context, p *model.Payment, amount float64, reason string) (*RefundResult, error) {
	return &RefundResult{
		RefundID: fmt.Sprintf("refund_%d", time.Now().UnixMilli()),
		Status:   "SUCCESS",
		Message:  "退款成功（模拟）",
	}, nil
}

// mockQRCode 内联 SVG 占位二维码，data URI 形式直接给 <img> 用。
func mockQRCode(amount float64) string {
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="200" height="200">
  <rect width="200" height="200" fill="#f0f0f0"/>
  <text x="100" y="100" text-anchor="middle" font-size="14">模拟支付</text>
  <text x="100" y="120" text-anchor="middle" font-size="12">¥%.2f</text>
</svg>`, amount)
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
