package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/SwiftParcel/SwiftParcel/internal/common/auth"
	"github.com/SwiftParcel/SwiftParcel/internal/common/config"
	"github.com/SwiftParcel/SwiftParcel/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPhoneTaken    = errors.New("该手机号已被注册")
	ErrUserNotFound  = errors.New("用户不存在")
	ErrWrongPassword = errors.New("密码错误")
	ErrBadInput      = errors.New("手机号和密码不能为空")
)

// Service 注册登录和用户资料。
type Service struct {
	db  *gorm.DB
	cfg config.AuthConfig
}

func NewService(db *gorm.DB, cfg config.AuthConfig) *Service {
	return &Service{db: db, cfg: cfg}
}

// AuthResult 注册/登录成功后的令牌与用户信息。
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// Register 按手机号注册，昵称缺省用手机号，成功直接发令牌。
func (s *Service) Register(ctx context.Context, phone, password, nickname string) (*AuthResult, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return nil, ErrBadInput
	}

	var existing model.User
	err := s.db.WithContext(ctx).Where("phone = ?", phone).First(&existing).Error
	if err == nil {
		return nil, ErrPhoneTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	salt, err := GenerateSaltHex()
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(password, salt)
	if err != nil {
		return nil, err
	}

	if nickname == "" {
		nickname = phone
	}
	u := &model.User{
		ID:           uuid.NewString(),
		Phone:        phone,
		PasswordHash: hash,
		PasswordSalt: salt,
		Nickname:     nickname,
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}

	return s.issueToken(u)
}

// Login 手机号 + 密码登录。
func (s *Service) Login(ctx context.Context, phone, password string) (*AuthResult, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return nil, ErrBadInput
	}

	var u model.User
	if err := s.db.WithContext(ctx).Where("phone = ?", phone).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !VerifyPassword(password, u.PasswordSalt, u.PasswordHash) {
		return nil, ErrWrongPassword
	}

	return s.issueToken(&u)
}

// GetProfile 查用户资料。
func (s *Service) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateProfile 改昵称/头像，空串表示不改。
func (s *Service) UpdateProfile(ctx context.Context, userID, nickname, avatar string) (*model.User, error) {
	updates := map[string]any{}
	if nickname != "" {
		updates["nickname"] = nickname
	}
	if avatar != "" {
		updates["avatar"] = avatar
	}

	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&model.User{}).
			Where("id = ?", userID).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrUserNotFound
		}
	}
	return s.GetProfile(ctx, userID)
}

func (s *Service) issueToken(u *model.User) (*AuthResult, error) {
	ttl := time.Duration(s.cfg.TokenTTLHour) * time.Hour
	token, expiresAt, err := auth.GenerateAccessToken(s.cfg, u.ID, u.Phone, ttl)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}
