package order

import (
	"errors"
	"net/http"

	"github.com/SwiftParcel/SwiftParcel/internal/common/logger"
	"github.com/SwiftParcel/SwiftParcel/internal/common/middleware"
	"github.com/SwiftParcel/SwiftParcel/internal/model"
	"github.com/gin-gonic/gin"
)

// Handler 订单 HTTP 适配层。
type Handler struct {
	svc *Service
	log logger.Logger
}

func NewHandler(svc *Service, log logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type createOrderRequest struct {
	DeliveryStationID string   `json:"deliveryStationId"`
	RecipientName     string   `json:"recipientName"`
	RecipientPhone    string   `json:"recipientPhone"`
	PickupCode        string   `json:"pickupCode"`
	DeliveryAddress   string   `json:"deliveryAddress"`
	DeliveryLat       *float64 `json:"deliveryLat"`
	DeliveryLng       *float64 `json:"deliveryLng"`
	ServiceType       string   `json:"serviceType"`
	IsUrgent          bool     `json:"isUrgent"`
	Remarks           string   `json:"remarks"`
}

// Create POST /api/orders
func (h *Handler) Create(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "订单数据不能为空"})
		return
	}

	o, err := h.svc.CreateOrder(c.Request.Context(), userID, CreateOrderInput{
		StationID:       req.DeliveryStationID,
		RecipientName:   req.RecipientName,
		RecipientPhone:  req.RecipientPhone,
		PickupCode:      req.PickupCode,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryLat:     req.DeliveryLat,
		DeliveryLng:     req.DeliveryLng,
		ServiceType:     model.ServiceTier(req.ServiceType),
		IsUrgent:        req.IsUrgent,
		Remarks:         req.Remarks,
	})
	if err != nil {
		h.log.Errorf("create order failed: %v", err)
		if errors.Is(err, ErrStationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": o})
}

// List GET /api/orders?status=
func (h *Handler) List(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	orders, err := h.svc.ListOrders(c.Request.Context(), userID, model.OrderStatus(c.Query("status")))
	if err != nil {
		h.log.Errorf("list orders failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "获取订单列表失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Get GET /api/orders/:id
func (h *Handler) Get(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	o, err := h.svc.GetOrder(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.respondErr(c, err, "获取订单详情失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": o})
}

// UpdateStatus PUT /api/orders/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "订单状态不能为空"})
		return
	}

	o, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), userID, model.OrderStatus(req.Status))
	if err != nil {
		h.respondErr(c, err, "更新订单状态失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": o})
}

// Cancel PUT /api/orders/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	o, err := h.svc.CancelOrder(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.respondErr(c, err, "取消订单失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": o})
}

// GetStats GET /api/orders/stats/summary
func (h *Handler) GetStats(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	stats, err := h.svc.GetStats(c.Request.Context(), userID)
	if err != nil {
		h.log.Errorf("get order stats failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "获取订单统计失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *Handler) respondErr(c *gin.Context, err error, fallback string) {
	h.log.Errorf("%s: %v", fallback, err)
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrCannotCancel):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
	}
}
