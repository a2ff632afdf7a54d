package address

import (
	"context"
	"errors"
	"strings"

	"github.com/SwiftParcel/SwiftParcel/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("地址不存在")

// Service 用户地址簿。"同一用户最多一条默认地址"靠清默认和写入
// 放在同一事务里保证，并发设置时不会留下两条默认。
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List 地址列表，默认地址排最前，其余按创建时间倒序。
func (s *Service) List(ctx context.Context, userID string) ([]model.Address, error) {
	var addresses []model.Address
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Order("created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

// Input 创建/更新地址的入参。
type Input struct {
	Name      string
	Phone     string
	Province  string
	City      string
	District  string
	Detail    string
	Latitude  *float64
	Longitude *float64
	IsDefault bool
}

func (in Input) validate() error {
	fields := map[string]string{
		"name":     in.Name,
		"phone":    in.Phone,
		"province": in.Province,
		"city":     in.City,
		"district": in.District,
		"address":  in.Detail,
	}
	for _, name := range []string{"name", "phone", "province", "city", "district", "address"} {
		if strings.TrimSpace(fields[name]) == "" {
			return errors.New(name + "不能为空")
		}
	}
	return nil
}

// Create 新建地址。设为默认时在同一事务里清掉其它默认项。
func (s *Service) Create(ctx context.Context, userID string, in Input) (*model.Address, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	a := &model.Address{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      in.Name,
		Phone:     in.Phone,
		Province:  in.Province,
		City:      in.City,
		District:  in.District,
		Detail:    in.Detail,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		IsDefault: in.IsDefault,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.IsDefault {
			if err := clearDefaults(tx, userID, ""); err != nil {
				return err
			}
		}
		return tx.Create(a).Error
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Update 整体更新地址（与创建同一套字段）。
func (s *Service) Update(ctx context.Context, id, userID string, in Input) (*model.Address, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var a model.Address
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&a).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if in.IsDefault {
			if err := clearDefaults(tx, userID, id); err != nil {
				return err
			}
		}

		updates := map[string]any{
			"name":       in.Name,
			"phone":      in.Phone,
			"province":   in.Province,
			"city":       in.City,
			"district":   in.District,
			"address":    in.Detail,
			"latitude":   in.Latitude,
			"longitude":  in.Longitude,
			"is_default": in.IsDefault,
		}
		if err := tx.Model(&a).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&a).Error
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Delete 删除地址（按归属）。
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Address{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetDefault 把指定地址设为默认，其余全部取消。
func (s *Service) SetDefault(ctx context.Context, id, userID string) (*model.Address, error) {
	var a model.Address
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&a).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := clearDefaults(tx, userID, id); err != nil {
			return err
		}
		if err := tx.Model(&a).Update("is_default", true).Error; err != nil {
			return err
		}
		a.IsDefault = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetDefault 查默认地址，没有时返回 nil（不算错误）。
func (s *Service) GetDefault(ctx context.Context, userID string) (*model.Address, error) {
	var a model.Address
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_default = ?", userID, true).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// clearDefaults 清掉用户的默认地址，except 非空时跳过该条。
func clearDefaults(tx *gorm.DB, userID, except string) error {
	q := tx.Model(&model.Address{}).Where("user_id = ?", userID)
	if except != "" {
		q = q.Where("id <> ?", except)
	}
	return q.Update("is_default", false).Error
}
