package station

import (
	"context"
	"errors"
	"strings"

	"github.com/SwiftParcel/SwiftParcel/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("快递站不存在")

// Service 快递站管理。读接口公开，写接口（管理员维护）走鉴权。
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List 启用中的快递站，新的在前。
func (s *Service) List(ctx context.Context) ([]model.Station, error) {
	var stations []model.Station
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&stations).Error
	if err != nil {
		return nil, err
	}
	return stations, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Station, error) {
	var st model.Station
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

// CreateInput 创建快递站的入参。经纬度用指针区分"没传"和 0。
type CreateInput struct {
	Name        string
	Address     string
	Latitude    *float64
	Longitude   *float64
	Phone       string
	Description string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Station, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Address) == "" ||
		in.Latitude == nil || in.Longitude == nil {
		return nil, errors.New("快递站名称、地址、经纬度不能为空")
	}

	st := &model.Station{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Address:     strings.TrimSpace(in.Address),
		Latitude:    *in.Latitude,
		Longitude:   *in.Longitude,
		Phone:       strings.TrimSpace(in.Phone),
		Description: strings.TrimSpace(in.Description),
		IsActive:    true,
	}
	if err := s.db.WithContext(ctx).Create(st).Error; err != nil {
		return nil, err
	}
	return st, nil
}

// UpdateInput 部分更新：nil 字段保持原值。
type UpdateInput struct {
	Name        *string
	Address     *string
	Latitude    *float64
	Longitude   *float64
	Phone       *string
	Description *string
	IsActive    *bool
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*model.Station, error) {
	updates := map[string]any{}
	if in.Name != nil && *in.Name != "" {
		updates["name"] = *in.Name
	}
	if in.Address != nil && *in.Address != "" {
		updates["address"] = *in.Address
	}
	if in.Latitude != nil {
		updates["latitude"] = *in.Latitude
	}
	if in.Longitude != nil {
		updates["longitude"] = *in.Longitude
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&model.Station{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Station{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
