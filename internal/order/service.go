package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SwiftParcel/SwiftParcel/internal/common/logger"
	"github.com/SwiftParcel/SwiftParcel/internal/model"
	"github.com/SwiftParcel/SwiftParcel/internal/pricing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service 封装订单领域用例（不依赖 HTTP），便于复用和测试。
type Service struct {
	repo *Repo
	db   *gorm.DB
	log  logger.Logger
}

func NewService(db *gorm.DB, log logger.Logger) *Service {
	return &Service{
		repo: NewRepo(db),
		db:   db,
		log:  log,
	}
}

// CreateOrderInput 创建订单的入参。
type CreateOrderInput struct {
	StationID       string
	RecipientName   string
	RecipientPhone  string
	PickupCode      string
	DeliveryAddress string
	DeliveryLat     *float64
	DeliveryLng     *float64
	ServiceType     model.ServiceTier
	IsUrgent        bool
	Remarks         string
}

// CreateOrder 校验必填项、解析快递站、计价并落单（PENDING / UNPAID）。
func (s *Service) CreateOrder(ctx context.Context, userID string, in CreateOrderInput) (*model.Order, error) {
	if strings.TrimSpace(in.StationID) == "" {
		return nil, fmt.Errorf("快递站ID不能为空")
	}
	if strings.TrimSpace(in.RecipientName) == "" {
		return nil, fmt.Errorf("收件人姓名不能为空")
	}
	if strings.TrimSpace(in.RecipientPhone) == "" {
		return nil, fmt.Errorf("收件人电话不能为空")
	}
	if strings.TrimSpace(in.DeliveryAddress) == "" {
		return nil, fmt.Errorf("送达地址不能为空")
	}

	var station model.Station
	if err := s.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(in.StationID)).First(&station).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	tier := in.ServiceType
	if tier == "" {
		tier = model.TierStandard
	}

	price := pricing.Calculate(tier, in.DeliveryLat, in.DeliveryLng, station.Latitude, station.Longitude, in.IsUrgent)
	if price.Degraded && s.log != nil {
		s.log.Warnf("pricing degraded to base fee: station=%s lat=%v lng=%v", station.ID, in.DeliveryLat, in.DeliveryLng)
	}

	o := &model.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		StationID:       station.ID,
		RecipientName:   strings.TrimSpace(in.RecipientName),
		RecipientPhone:  strings.TrimSpace(in.RecipientPhone),
		PickupCode:      strings.TrimSpace(in.PickupCode),
		DeliveryAddress: strings.TrimSpace(in.DeliveryAddress),
		DeliveryLat:     in.DeliveryLat,
		DeliveryLng:     in.DeliveryLng,
		Remarks:         strings.TrimSpace(in.Remarks),
		ServiceType:     tier,
		IsUrgent:        in.IsUrgent,
		BasePrice:       price.BasePrice,
		Distance:        price.Distance,
		DistancePrice:   price.DistancePrice,
		UrgentFee:       price.UrgentFee,
		TotalPrice:      price.TotalPrice,
		Status:          model.OrderPending,
		PaymentStatus:   model.PayUnpaid,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	o.Station = &station
	return o, nil
}

// GetOrder 查单（按归属）。
func (s *Service) GetOrder(ctx context.Context, id, userID string) (*model.Order, error) {
	return s.repo.GetByID(ctx, id, userID)
}

// ListOrders 按用户查订单列表，可选状态过滤。
func (s *Service) ListOrders(ctx context.Context, userID string, status model.OrderStatus) ([]model.Order, error) {
	return s.repo.List(ctx, userID, status)
}

// UpdateStatus 按状态机流转订单状态。userID 非空时校验归属。
func (s *Service) UpdateStatus(ctx context.Context, id, userID string, to model.OrderStatus) (*model.Order, error) {
	o, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := ApplyTransition(o, to, time.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatusCAS(ctx, o.ID, o.Version, o.Status, o.CompletedAt); err != nil {
		return nil, err
	}
	o.Version++
	return o, nil
}

// CancelOrder 取消订单：只有 PENDING / CONFIRMED 可取消。
func (s *Service) CancelOrder(ctx context.Context, id, userID string) (*model.Order, error) {
	o, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !canCancel(o.Status) {
		return nil, ErrCannotCancel
	}

	if err := s.repo.UpdateStatusCAS(ctx, o.ID, o.Version, model.OrderCancelled, nil); err != nil {
		return nil, err
	}
	o.Status = model.OrderCancelled
	o.Version++
	return o, nil
}

// GetStats 用户维度的订单统计。
func (s *Service) GetStats(ctx context.Context, userID string) (*Stats, error) {
	return s.repo.Stats(ctx, userID)
}
