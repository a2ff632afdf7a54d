package station

import (
	"errors"
	"net/http"

	"github.com/SwiftParcel/SwiftParcel/internal/common/logger"
	"github.com/gin-gonic/gin"
)

// Handler 快递站 HTTP 适配层。
type Handler struct {
	svc *Service
	log logger.Logger
}

func NewHandler(svc *Service, log logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// List GET /api/stations（公开）
func (h *Handler) List(c *gin.Context) {
	stations, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.log.Errorf("list stations failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "获取快递站列表失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stations": stations})
}

// Get GET /api/stations/:id（公开）
func (h *Handler) Get(c *gin.Context) {
	st, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		h.log.Errorf("get station failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "获取快递站详情失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"station": st})
}

type stationRequest struct {
	Name        *string  `json:"name"`
	Address     *string  `json:"address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Phone       *string  `json:"phone"`
	Description *string  `json:"description"`
	IsActive    *bool    `json:"isActive"`
}

// Create POST /api/stations（管理员维护）
func (h *Handler) Create(c *gin.Context) {
	var req stationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "快递站名称、地址、经纬度不能为空"})
		return
	}

	in := CreateInput{Latitude: req.Latitude, Longitude: req.Longitude}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Address != nil {
		in.Address = *req.Address
	}
	if req.Phone != nil {
		in.Phone = *req.Phone
	}
	if req.Description != nil {
		in.Description = *req.Description
	}

	st, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "快递站创建成功", "station": st})
}

// Update PUT /api/stations/:id（管理员维护）
func (h *Handler) Update(c *gin.Context) {
	var req stationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "请求数据格式错误"})
		return
	}

	st, err := h.svc.Update(c.Request.Context(), c.Param("id"), UpdateInput{
		Name:        req.Name,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Phone:       req.Phone,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		h.log.Errorf("update station failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "更新快递站失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "快递站更新成功", "station": st})
}

// Delete DELETE /api/stations/:id（管理员维护）
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		h.log.Errorf("delete station failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "删除快递站失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "快递站删除成功"})
}
