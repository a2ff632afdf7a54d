package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SwiftParcel/SwiftParcel/internal/common/logger"
	"github.com/SwiftParcel/SwiftParcel/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service 支付编排层：负责支付单的生命周期和订单侧状态的联动落库，
// 渠道交互交给 Backend。支付单和订单的双写都在同一事务里。
type Service struct {
	db       *gorm.DB
	registry *Registry
	log      logger.Logger
}

func NewService(db *gorm.DB, registry *Registry, log logger.Logger) *Service {
	return &Service{db: db, registry: registry, log: log}
}

// Create 发起支付。一个订单只有一条支付单：已存在且未支付时复用并重置，
// 已支付则拒绝。金额以订单落库价格为准，不信任客户端。
func (s *Service) Create(ctx context.Context, userID, orderID, method string) (*model.Payment, *CreateResult, error) {
	if method == "" {
		method = model.MethodMock
	}
	backend, err := s.registry.Get(method)
	if err != nil {
		return nil, nil, err
	}

	var o model.Order
	if err := s.db.WithContext(ctx).Preload("Station").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, err
	}
	if o.PaymentStatus != model.PayUnpaid {
		return nil, nil, ErrOrderNotPayable
	}

	var p *model.Payment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Payment
		err := tx.Where("order_id = ?", o.ID).First(&existing).Error
		switch {
		case err == nil:
			if existing.Status == model.PaymentPaid {
				return ErrAlreadyPaid
			}
			// 复用支付单：重置金额、渠道和状态，重新走一遍支付
			if err := tx.Model(&existing).Updates(map[string]any{
				"amount":         o.TotalPrice,
				"payment_method": method,
				"status":         model.PaymentPending,
			}).Error; err != nil {
				return err
			}
			existing.Amount = o.TotalPrice
			existing.PaymentMethod = method
			existing.Status = model.PaymentPending
			p = &existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			p = &model.Payment{
				ID:            uuid.NewString(),
				OrderID:       o.ID,
				Amount:        o.TotalPrice,
				PaymentMethod: method,
				Status:        model.PaymentPending,
			}
			return tx.Create(p).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, nil, err
	}

	description := "快递服务"
	if o.Station != nil {
		description = fmt.Sprintf("快递服务 - %s", o.Station.Name)
	}

	result, err := backend.CreatePayment(ctx, p, description)
	if err != nil {
		return nil, nil, err
	}
	return p, result, nil
}

// Status 支付状态查询结果。
type Status struct {
	PaymentID    string     `json:"paymentId"`
	Status       string     `json:"status"`
	Amount       float64    `json:"amount"`
	PaidAt       *time.Time `json:"paidAt,omitempty"`
	WechatStatus string     `json:"wechatStatus,omitempty"`
}

// Query 查支付状态。微信渠道附带渠道语义的交易状态。
func (s *Service) Query(ctx context.Context, paymentID string) (*Status, error) {
	var p model.Payment
	if err := s.db.WithContext(ctx).Where("id = ?", paymentID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	st := &Status{
		PaymentID: p.ID,
		Status:    string(p.Status),
		Amount:    p.Amount,
		PaidAt:    p.PaidAt,
	}
	if p.PaymentMethod == model.MethodWechat {
		if p.Status == model.PaymentPaid {
			st.WechatStatus = "SUCCESS"
		} else {
			st.WechatStatus = "NOTPAY"
		}
	}
	return st, nil
}

// Confirm 确认支付，仅模拟渠道可用。重复确认幂等返回成功。
func (s *Service) Confirm(ctx context.Context, userID, paymentID string) (string, error) {
	p, err := s.getOwned(ctx, paymentID, userID)
	if err != nil {
		return "", err
	}
	if p.PaymentMethod != model.MethodMock {
		return "", ErrMockOnly
	}
	if p.Status == model.PaymentPaid {
		return "订单已支付", nil
	}

	txID := fmt.Sprintf("MOCK_%d", time.Now().UnixMilli())
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.markPaid(tx, p, txID)
	})
	if err != nil {
		return "", err
	}
	return "支付成功", nil
}

// Cancel 取消支付，支付单置为 FAILED。已支付的不能取消，要走退款。
func (s *Service) Cancel(ctx context.Context, userID, paymentID string) error {
	p, err := s.getOwned(ctx, paymentID, userID)
	if err != nil {
		return err
	}
	if p.Status == model.PaymentPaid {
		return ErrPaidCannotCancel
	}

	return s.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ?", p.ID).
		Update("status", model.PaymentFailed).Error
}

// Refund 申请退款。只有 PAID 的支付单可退，渠道受理后支付单和订单
// 的支付状态在同一事务里翻到 REFUNDED。
func (s *Service) Refund(ctx context.Context, userID, paymentID string, amount float64, reason string) (*RefundResult, error) {
	p, err := s.getOwned(ctx, paymentID, userID)
	if err != nil {
		return nil, err
	}
	if p.Status != model.PaymentPaid {
		return nil, ErrNotPaid
	}

	backend, err := s.registry.Get(p.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("不支持%s支付的退款", p.PaymentMethod)
	}
	result, err := backend.Refund(ctx, p, amount, reason)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Payment{}).
			Where("id = ?", p.ID).
			Update("status", model.PaymentRefunded).Error; err != nil {
			return err
		}
		return s.casOrderUpdate(tx, p.OrderID, map[string]any{
			"payment_status": model.PayRefunded,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// HandleCallback 处理渠道回调。解析和验签交给渠道实现，落库在这里。
// 支付单找不到或状态对不上不算错误，按失败结论返回，渠道侧自行重试。
func (s *Service) HandleCallback(ctx context.Context, method string, data map[string]any) (*CallbackResult, error) {
	backend, err := s.registry.Get(method)
	if err != nil {
		return nil, err
	}

	res, err := backend.HandleCallback(ctx, data)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return res, nil
	}

	var p model.Payment
	if err := s.db.WithContext(ctx).
		Where("id = ? OR transaction_id = ?", res.PaymentID, res.PaymentID).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if s.log != nil {
				s.log.Warnf("payment callback for unknown payment: %s", res.PaymentID)
			}
			return &CallbackResult{Success: false, Message: "支付记录不存在"}, nil
		}
		return nil, err
	}
	if p.Status == model.PaymentPaid {
		return &CallbackResult{Success: true, Message: "支付成功", PaymentID: p.ID}, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.markPaid(tx, &p, res.TransactionID)
	})
	if err != nil {
		return nil, err
	}
	return &CallbackResult{Success: true, Message: "支付成功", PaymentID: p.ID}, nil
}

// History 用户的支付记录，新的在前，带订单和站点信息。
func (s *Service) History(ctx context.Context, userID string) ([]model.Payment, error) {
	var payments []model.Payment
	err := s.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = payments.order_id").
		Where("orders.user_id = ?", userID).
		Preload("Order").
		Preload("Order.Station").
		Order("payments.created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// getOwned 查支付单并校验归属。越权访问按不存在处理。
func (s *Service) getOwned(ctx context.Context, paymentID, userID string) (*model.Payment, error) {
	var p model.Payment
	if err := s.db.WithContext(ctx).Preload("Order").
		Where("id = ?", paymentID).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.Order == nil || p.Order.UserID != userID {
		return nil, ErrNotFound
	}
	return &p, nil
}

// markPaid 支付成功落库：支付单翻 PAID，订单支付状态翻 PAID，
// 订单主状态 PENDING 时顺带推进到 CONFIRMED。
func (s *Service) markPaid(tx *gorm.DB, p *model.Payment, transactionID string) error {
	now := time.Now()

	updates := map[string]any{
		"status":  model.PaymentPaid,
		"paid_at": now,
	}
	if transactionID != "" {
		updates["transaction_id"] = transactionID
	}
	if err := tx.Model(&model.Payment{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
		return err
	}

	return s.casOrderUpdate(tx, p.OrderID, map[string]any{
		"payment_status": model.PayPaid,
		"paid_at":        now,
	}, func(o *model.Order) {
		if o.Status == model.OrderPending {
			o.Status = model.OrderConfirmed
		}
	})
}

// casOrderUpdate 带版本号更新订单。mutate 可以基于当前订单追加状态变化。
func (s *Service) casOrderUpdate(tx *gorm.DB, orderID string, updates map[string]any, mutate ...func(*model.Order)) error {
	var o model.Order
	if err := tx.Where("id = ?", orderID).First(&o).Error; err != nil {
		return err
	}

	before := o.Status
	for _, fn := range mutate {
		fn(&o)
	}
	if o.Status != before {
		updates["status"] = o.Status
	}
	updates["version"] = o.Version + 1

	res := tx.Model(&model.Order{}).
		Where("id = ? AND version = ?", o.ID, o.Version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}
