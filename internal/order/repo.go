package order

import (
	"context"
	"errors"
	"time"

	"github.com/SwiftParcel/SwiftParcel/internal/model"
	"gorm.io/gorm"
)

// Repo 订单持久层。
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// GetByID 查单。userID 非空时按归属查询（查询即鉴权，避免事后比对）。
func (r *Repo) GetByID(ctx context.Context, id, userID string) (*model.Order, error) {
	q := r.db.WithContext(ctx).
		Preload("Station").
		Preload("Payment").
		Preload("Review").
		Where("id = ?", id)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	var o model.Order
	if err := q.First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// List 按用户查订单，可选状态过滤，新单在前，带站点/支付/评价关联。
func (r *Repo) List(ctx context.Context, userID string, status model.OrderStatus) ([]model.Order, error) {
	q := r.db.WithContext(ctx).
		Preload("Station").
		Preload("Payment").
		Preload("Review").
		Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var orders []model.Order
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatusCAS 带版本号的状态更新：WHERE id AND version 命中才写，
// 防止两个并发流转请求互相覆盖。completedAt 仅在流入 COMPLETED 时非 nil。
func (r *Repo) UpdateStatusCAS(ctx context.Context, id string, version int64, to model.OrderStatus, completedAt *time.Time) error {
	updates := map[string]any{
		"status":  to,
		"version": version + 1,
	}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}

	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// Stats 单用户聚合：总量/各状态数量 + 已支付订单的消费总额。
type Stats struct {
	Total      int64   `json:"total"`
	Pending    int64   `json:"pending"`
	Completed  int64   `json:"completed"`
	Cancelled  int64   `json:"cancelled"`
	TotalSpent float64 `json:"totalSpent"`
}

func (r *Repo) Stats(ctx context.Context, userID string) (*Stats, error) {
	var rows []struct {
		Status        model.OrderStatus
		PaymentStatus model.PaymentState
		TotalPrice    float64
	}
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("status", "payment_status", "total_price").
		Where("user_id = ?", userID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	s := &Stats{Total: int64(len(rows))}
	for _, row := range rows {
		switch row.Status {
		case model.OrderPending:
			s.Pending++
		case model.OrderCompleted:
			s.Completed++
		case model.OrderCancelled:
			s.Cancelled++
		}
		if row.PaymentStatus == model.PayPaid {
			s.TotalSpent += row.TotalPrice
		}
	}
	return s, nil
}
