package user

import (
	"errors"
	"net/http"

	"github.com/SwiftParcel/SwiftParcel/internal/common/logger"
	"github.com/SwiftParcel/SwiftParcel/internal/common/middleware"
	"github.com/gin-gonic/gin"
)

// Handler 认证与用户资料 HTTP 适配层。
type Handler struct {
	svc *Service
	log logger.Logger
}

func NewHandler(svc *Service, log logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
		Nickname string `json:"nickname"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": ErrBadInput.Error()})
		return
	}

	result, err := h.svc.Register(c.Request.Context(), req.Phone, req.Password, req.Nickname)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadInput):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.Is(err, ErrPhoneTaken):
			c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
		default:
			h.log.Errorf("register failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "注册失败，请重试"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "注册成功",
		"token":   result.Token,
		"user":    result.User,
	})
}

// Login POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": ErrBadInput.Error()})
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadInput):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrWrongPassword):
			c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
		default:
			h.log.Errorf("login failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "登录失败，请重试"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "登录成功",
		"token":   result.Token,
		"user":    result.User,
	})
}

// GetProfile GET /api/auth/profile
func (h *Handler) GetProfile(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	u, err := h.svc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		h.log.Errorf("get profile failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "获取用户信息失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// UpdateProfile PUT /api/auth/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	var req struct {
		Nickname string `json:"nickname"`
		Avatar   string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "请求数据格式错误"})
		return
	}

	u, err := h.svc.UpdateProfile(c.Request.Context(), userID, req.Nickname, req.Avatar)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		h.log.Errorf("update profile failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "更新用户信息失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "用户信息更新成功", "user": u})
}
