package address

import (
	"errors"
	"net/http"

	"github.com/SwiftParcel/SwiftParcel/internal/common/logger"
	"github.com/SwiftParcel/SwiftParcel/internal/common/middleware"
	"github.com/gin-gonic/gin"
)

// Handler 地址簿 HTTP 适配层。
type Handler struct {
	svc *Service
	log logger.Logger
}

func NewHandler(svc *Service, log logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type addressRequest struct {
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Province  string   `json:"province"`
	City      string   `json:"city"`
	District  string   `json:"district"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	IsDefault bool     `json:"isDefault"`
}

func (r addressRequest) input() Input {
	return Input{
		Name:      r.Name,
		Phone:     r.Phone,
		Province:  r.Province,
		City:      r.City,
		District:  r.District,
		Detail:    r.Address,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		IsDefault: r.IsDefault,
	}
}

// List GET /api/addresses
func (h *Handler) List(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	addresses, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		h.log.Errorf("list addresses failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "获取地址列表失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

// Create POST /api/addresses
func (h *Handler) Create(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "地址数据不能为空"})
		return
	}

	a, err := h.svc.Create(c.Request.Context(), userID, req.input())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "address": a})
}

// Update PUT /api/addresses/:id
func (h *Handler) Update(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "地址数据不能为空"})
		return
	}

	a, err := h.svc.Update(c.Request.Context(), c.Param("id"), userID, req.input())
	if err != nil {
		h.respondErr(c, err, "更新地址失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "address": a})
}

// Delete DELETE /api/addresses/:id
func (h *Handler) Delete(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.respondErr(c, err, "删除地址失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "地址删除成功"})
}

// SetDefault PUT /api/addresses/:id/default
func (h *Handler) SetDefault(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	a, err := h.svc.SetDefault(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.respondErr(c, err, "设置默认地址失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "address": a})
}

// GetDefault GET /api/addresses/default
func (h *Handler) GetDefault(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	a, err := h.svc.GetDefault(c.Request.Context(), userID)
	if err != nil {
		h.log.Errorf("get default address failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "获取默认地址失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": a})
}

func (h *Handler) respondErr(c *gin.Context, err error, fallback string) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}
	h.log.Errorf("%s: %v", fallback, err)
	c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
}
