package review

import (
	"errors"
	"net/http"

	"github.com/SwiftParcel/SwiftParcel/internal/common/logger"
	"github.com/SwiftParcel/SwiftParcel/internal/common/middleware"
	"github.com/gin-gonic/gin"
)

// Handler 评价 HTTP 适配层。
type Handler struct {
	svc *Service
	log logger.Logger
}

func NewHandler(svc *Service, log logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Create POST /api/reviews/order/:orderId
func (h *Handler) Create(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	var req struct {
		Rating  int    `json:"rating"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": ErrBadRating.Error()})
		return
	}

	r, err := h.svc.Create(c.Request.Context(), c.Param("orderId"), userID, req.Rating, req.Content)
	if err != nil {
		h.respondErr(c, err, "创建评价失败")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "review": r})
}

// GetByOrder GET /api/reviews/order/:orderId
func (h *Handler) GetByOrder(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	r, err := h.svc.GetByOrder(c.Request.Context(), c.Param("orderId"), userID)
	if err != nil {
		h.log.Errorf("get order review failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "获取订单评价失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": r})
}

// ListMine GET /api/reviews/user
func (h *Handler) ListMine(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	reviews, err := h.svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.log.Errorf("list user reviews failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "获取用户评价失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// Update PUT /api/reviews/:id
func (h *Handler) Update(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	var req struct {
		Rating  int     `json:"rating"`
		Content *string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "请求数据格式错误"})
		return
	}

	r, err := h.svc.Update(c.Request.Context(), c.Param("id"), userID, req.Rating, req.Content)
	if err != nil {
		h.respondErr(c, err, "更新评价失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "review": r})
}

// Delete DELETE /api/reviews/:id
func (h *Handler) Delete(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.respondErr(c, err, "删除评价失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "评价删除成功"})
}

// GetStats GET /api/reviews/stats/overview
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.svc.GetStats(c.Request.Context())
	if err != nil {
		h.log.Errorf("get review stats failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "获取评价统计失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *Handler) respondErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, ErrOrderNotFinished), errors.Is(err, ErrBadRating):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		h.log.Errorf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
	}
}
