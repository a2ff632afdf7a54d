package review

import (
	"context"
	"errors"
	"math"

	"github.com/SwiftParcel/SwiftParcel/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("评价不存在")
	ErrOrderNotFound    = errors.New("订单不存在")
	ErrOrderNotFinished = errors.New("只有已完成的订单可以评价")
	ErrAlreadyReviewed  = errors.New("该订单已评价过")
	ErrBadRating        = errors.New("评分必须在1-5之间")
)

// Service 订单评价。一单一评，只有 COMPLETED 的订单能评。
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create 创建评价。订单归属、完成状态和唯一性都在这里把关，
// 唯一索引兜底并发下的重复评价。
func (s *Service) Create(ctx context.Context, orderID, userID string, rating int, content string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrBadRating
	}

	var o model.Order
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if o.Status != model.OrderCompleted {
		return nil, ErrOrderNotFinished
	}

	var existing model.Review
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyReviewed
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	r := &model.Review{
		ID:      uuid.NewString(),
		OrderID: orderID,
		UserID:  userID,
		Rating:  rating,
		Content: content,
	}
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// GetByOrder 查订单评价，没有时返回 nil。
func (s *Service) GetByOrder(ctx context.Context, orderID, userID string) (*model.Review, error) {
	var r model.Review
	err := s.db.WithContext(ctx).
		Preload("Order").
		Preload("Order.Station").
		Where("order_id = ? AND user_id = ?", orderID, userID).
		First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

// ListByUser 用户评价列表，新的在前，带订单和站点信息。
func (s *Service) ListByUser(ctx context.Context, userID string) ([]model.Review, error) {
	var reviews []model.Review
	err := s.db.WithContext(ctx).
		Preload("Order").
		Preload("Order.Station").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// Update 改评分/内容。rating 为 0 表示不改评分。
func (s *Service) Update(ctx context.Context, id, userID string, rating int, content *string) (*model.Review, error) {
	if rating != 0 && (rating < 1 || rating > 5) {
		return nil, ErrBadRating
	}

	var r model.Review
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]any{}
	if rating != 0 {
		updates["rating"] = rating
		r.Rating = rating
	}
	if content != nil {
		updates["content"] = *content
		r.Content = *content
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&r).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &r, nil
}

// Delete 删除自己的评价。
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats 全站评价统计。
type Stats struct {
	Total        int64         `json:"total"`
	Average      float64       `json:"average"` // 保留一位小数
	Distribution map[int]int64 `json:"distribution"`
}

// GetStats 总量、平均分（一位小数）和 1-5 星分布。
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	var ratings []int
	if err := s.db.WithContext(ctx).Model(&model.Review{}).
		Pluck("rating", &ratings).Error; err != nil {
		return nil, err
	}

	stats := &Stats{
		Total:        int64(len(ratings)),
		Distribution: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	var sum int
	for _, r := range ratings {
		sum += r
		if r >= 1 && r <= 5 {
			stats.Distribution[r]++
		}
	}
	if stats.Total > 0 {
		stats.Average = math.Round(float64(sum)/float64(stats.Total)*10) / 10
	}
	return stats, nil
}
