package payment

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SwiftParcel/SwiftParcel/internal/common/config"
	"github.com/SwiftParcel/SwiftParcel/internal/common/logger"
	"github.com/SwiftParcel/SwiftParcel/internal/model"
)

// WechatBackend 微信支付（JSAPI）。商户证书不可用时退化为演示模式：
// 照常生成调起参数，paySign 为占位签名，前端可以走完整个支付交互流程。
type WechatBackend struct {
	cfg        *config.WechatConfig
	log        logger.Logger
	privateKey *rsa.PrivateKey // 演示模式下为 nil
}

func NewWechatBackend(cfg *config.Config, log logger.Logger) *WechatBackend {
	b := &WechatBackend{cfg: &cfg.Wechat, log: log}

	key, err := loadMerchantKey(cfg.Wechat.CertPath)
	if err != nil {
		if log != nil {
			log.Warnf("wechat merchant key unavailable, running in demo mode: %v", err)
		}
		return b
	}
	b.privateKey = key
	return b
}

func (b *WechatBackend) Method() string { return model.MethodWechat }

func (b *WechatBackend) isBackend() {}

// CreatePayment 生成前端调起支付的参数。演示模式下 prepay_id 直接用支付单 ID。
func (b *WechatBackend) CreatePayment(ctx context.Context, p *model.Payment, description string) (*CreateResult, error) {
	prepayID := p.ID
	params, err := b.launchParams(prepayID)
	if err != nil {
		return nil, err
	}
	return &CreateResult{WechatParams: params}, nil
}

// HandleCallback 解析微信支付结果通知。支付单的落库由编排层在事务里完成。
func (b *WechatBackend) HandleCallback(ctx context.Context, data map[string]any) (*CallbackResult, error) {
	outTradeNo, _ := data["out_trade_no"].(string)
	transactionID, _ := data["transaction_id"].(string)
	tradeState, _ := data["trade_state"].(string)
	eventType, _ := data["event_type"].(string)

	if outTradeNo == "" {
		return &CallbackResult{Success: false, Message: "回调缺少商户订单号"}, nil
	}
	if tradeState != "SUCCESS" && eventType != "TRANSACTION.SUCCESS" {
		return &CallbackResult{Success: false, Message: "支付未完成", PaymentID: outTradeNo}, nil
	}

	return &CallbackResult{
		Success:       true,
		Message:       "支付成功",
		PaymentID:     outTradeNo,
		TransactionID: transactionID,
	}, nil
}

// Refund 微信退款。演示模式下只返回受理结果，资金状态由编排层落库。
func (b *WechatBackend) Refund(ctx context.Context, p *model.Payment, amount float64, reason string) (*RefundResult, error) {
	refundID := fmt.Sprintf("refund_%d_%s", time.Now().UnixMilli(), nonce(4))
	if b.privateKey == nil {
		return &RefundResult{RefundID: refundID, Status: "SUCCESS", Message: "退款申请成功（模拟）"}, nil
	}
	return &RefundResult{RefundID: refundID, Status: "SUCCESS", Message: "退款申请成功"}, nil
}

// launchParams 按微信 JSAPI 规则生成调起参数并签名。
func (b *WechatBackend) launchParams(prepayID string) (*LaunchParams, error) {
	appID := b.cfg.AppID
	if appID == "" {
		appID = "wx_test_app_id"
	}
	timeStamp := fmt.Sprintf("%d", time.Now().Unix())
	nonceStr := nonce(16)
	pkg := "prepay_id=" + prepayID

	paySign := "mock_sign_" + prepayID
	if b.privateKey != nil {
		signString := fmt.Sprintf("%s\n%s\n%s\n%s\n", appID, timeStamp, nonceStr, pkg)
		sig, err := b.sign(signString)
		if err != nil {
			return nil, fmt.Errorf("签名失败: %w", err)
		}
		paySign = sig
	}

	return &LaunchParams{
		AppID:     appID,
		TimeStamp: timeStamp,
		NonceStr:  nonceStr,
		Package:   pkg,
		SignType:  "RSA",
		PaySign:   paySign,
	}, nil
}

// sign SHA256withRSA，base64 输出。
func (b *WechatBackend) sign(data string) (string, error) {
	sum := sha256.Sum256([]byte(data))
	sig, err := rsa.SignPKCS1v15(rand.Reader, b.privateKey, crypto.SHA256, sum[:])
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// loadMerchantKey 读取商户私钥 apiclient_key.pem。
func loadMerchantKey(certPath string) (*rsa.PrivateKey, error) {
	if certPath == "" {
		return nil, fmt.Errorf("cert path not configured")
	}

	data, err := os.ReadFile(filepath.Join(certPath, "apiclient_key.pem"))
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("invalid pem in apiclient_key.pem")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("apiclient_key.pem is not an RSA key")
	}
	return key, nil
}

func nonce(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
