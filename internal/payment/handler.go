package payment

import (
	"errors"
	"net/http"

	"github.com/SwiftParcel/SwiftParcel/internal/common/logger"
	"github.com/SwiftParcel/SwiftParcel/internal/common/middleware"
	"github.com/SwiftParcel/SwiftParcel/internal/model"
	"github.com/gin-gonic/gin"
)

// Handler 支付 HTTP 适配层。
type Handler struct {
	svc *Service
	log logger.Logger
}

func NewHandler(svc *Service, log logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Create POST /api/payments/create
func (h *Handler) Create(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	var req struct {
		OrderID       string `json:"orderId"`
		PaymentMethod string `json:"paymentMethod"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "订单ID不能为空"})
		return
	}

	p, result, err := h.svc.Create(c.Request.Context(), userID, req.OrderID, req.PaymentMethod)
	if err != nil {
		h.respondErr(c, err, "创建支付订单失败")
		return
	}

	resp := gin.H{
		"success":       true,
		"payment":       p,
		"paymentMethod": p.PaymentMethod,
	}
	if result.WechatParams != nil {
		resp["wechatParams"] = result.WechatParams
	}
	if result.PaymentURL != "" {
		resp["paymentUrl"] = result.PaymentURL
		resp["qrCode"] = result.QRCode
		resp["expiresAt"] = result.ExpiresAt
	}
	c.JSON(http.StatusOK, resp)
}

// Confirm POST /api/payments/confirm（模拟支付专用）
func (h *Handler) Confirm(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	paymentID, ok := h.bindPaymentID(c)
	if !ok {
		return
	}

	msg, err := h.svc.Confirm(c.Request.Context(), userID, paymentID)
	if err != nil {
		h.respondErr(c, err, "确认支付失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg, "paymentId": paymentID})
}

// Cancel POST /api/payments/cancel
func (h *Handler) Cancel(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	paymentID, ok := h.bindPaymentID(c)
	if !ok {
		return
	}

	if err := h.svc.Cancel(c.Request.Context(), userID, paymentID); err != nil {
		h.respondErr(c, err, "取消支付失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "支付已取消"})
}

// Status GET /api/payments/:paymentId/status
func (h *Handler) Status(c *gin.Context) {
	st, err := h.svc.Query(c.Request.Context(), c.Param("paymentId"))
	if err != nil {
		h.respondErr(c, err, "查询支付状态失败")
		return
	}

	resp := gin.H{
		"success":   true,
		"paymentId": st.PaymentID,
		"status":    st.Status,
		"amount":    st.Amount,
		"paidAt":    st.PaidAt,
	}
	if st.WechatStatus != "" {
		resp["wechatStatus"] = st.WechatStatus
	}
	c.JSON(http.StatusOK, resp)
}

// Notify POST /api/payments/notify（渠道回调，不走鉴权）
func (h *Handler) Notify(c *gin.Context) {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "FAIL", "message": "回调数据解析失败"})
		return
	}

	res, err := h.svc.HandleCallback(c.Request.Context(), model.MethodWechat, data)
	if err != nil {
		h.log.Errorf("payment callback failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": "FAIL", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "SUCCESS", "message": res.Message})
}

// Refund POST /api/payments/refund
func (h *Handler) Refund(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	var req struct {
		PaymentID string  `json:"paymentId"`
		Amount    float64 `json:"amount"`
		Reason    string  `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.PaymentID == "" || req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "支付ID和退款金额不能为空"})
		return
	}
	if req.Reason == "" {
		req.Reason = "用户申请退款"
	}

	result, err := h.svc.Refund(c.Request.Context(), userID, req.PaymentID, req.Amount, req.Reason)
	if err != nil {
		h.respondErr(c, err, "申请退款失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"refundId": result.RefundID,
		"status":   result.Status,
		"message":  result.Message,
	})
}

// History GET /api/payments/history
func (h *Handler) History(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)

	payments, err := h.svc.History(c.Request.Context(), userID)
	if err != nil {
		h.log.Errorf("get payment history failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "获取支付记录失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func (h *Handler) bindPaymentID(c *gin.Context) (string, bool) {
	var req struct {
		PaymentID string `json:"paymentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.PaymentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "支付ID不能为空"})
		return "", false
	}
	return req.PaymentID, true
}

func (h *Handler) respondErr(c *gin.Context, err error, fallback string) {
	h.log.Errorf("%s: %v", fallback, err)
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, ErrAlreadyPaid), errors.Is(err, ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, ErrOrderNotPayable), errors.Is(err, ErrMockOnly),
		errors.Is(err, ErrPaidCannotCancel), errors.Is(err, ErrNotPaid),
		errors.Is(err, ErrUnknownMethod):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
	}
}
