package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config 应用配置。
type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Redis     RedisConfig     `json:"redis"`
	Consul    ConsulConfig    `json:"consul"`
	Jaeger    JaegerConfig    `json:"jaeger"`
	Auth      AuthConfig      `json:"auth"`
	Wechat    WechatConfig    `json:"wechat"`
	Payment   PaymentConfig   `json:"payment"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	Log       LogConfig       `json:"log"`
}

// ServerConfig HTTP 服务配置。
type ServerConfig struct {
	Name string `json:"name"` // 服务名（也用于 Consul 注册）
	Host string `json:"host"`
	Port int    `json:"port"`
}

// DatabaseConfig 数据库配置。
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	MaxIdle  int    `json:"max_idle"`
	MaxOpen  int    `json:"max_open"`
}

// DSN 拼接 MySQL 连接串。
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// RedisConfig Redis 配置。
type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	PoolSize int    `json:"pool_size"`
}

// Addr host:port 形式的地址。
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ConsulConfig Consul 配置。
type ConsulConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// JaegerConfig 链路追踪配置。
type JaegerConfig struct {
	Endpoint string  `json:"endpoint"`
	Sampler  float64 `json:"sampler"` // 采样率 0.0-1.0
}

// AuthConfig JWT 鉴权配置。
type AuthConfig struct {
	JWTSecret    string `json:"jwt_secret"`
	Issuer       string `json:"issuer"`
	Audience     string `json:"audience"`
	TokenTTLHour int    `json:"token_ttl_hour"`
}

// WechatConfig 微信支付商户配置。证书/密钥缺失时 wechat 后端退化为演示模式。
type WechatConfig struct {
	AppID     string `json:"app_id"`
	MchID     string `json:"mch_id"`
	APIKey    string `json:"api_key"`
	SerialNo  string `json:"serial_no"`
	NotifyURL string `json:"notify_url"`
	CertPath  string `json:"cert_path"`
}

// PaymentConfig 支付相关杂项。
type PaymentConfig struct {
	// 模拟支付链接的有效期（分钟）。仅作为返回给前端的提示，服务端不做过期清扫。
	MockExpireMinute int `json:"mock_expire_minute"`
}

// RateLimitConfig 全局限流配置（按客户端维度的滑动窗口）。
type RateLimitConfig struct {
	Limit     int `json:"limit"`
	WindowSec int `json:"window_sec"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Driver string `json:"driver"` // logrus, zap
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stdout, file
	Path   string `json:"path"`
}

// LoadConfig 从 JSON 文件加载配置；文件不存在时退回默认配置（开发环境友好）。
func LoadConfig(configPath string) (*Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// defaultConfig 默认配置（开发环境）。
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "swiftparcel-api",
			Host: "0.0.0.0",
			Port: 3001,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			User:     "root",
			Password: "root",
			Database: "swiftparcel",
			MaxIdle:  10,
			MaxOpen:  100,
		},
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     6379,
			Password: "",
			DB:       0,
			PoolSize: 10,
		},
		Consul: ConsulConfig{
			Host: "localhost",
			Port: 8500,
		},
		Jaeger: JaegerConfig{
			Endpoint: "localhost:6831",
			Sampler:  1.0,
		},
		Auth: AuthConfig{
			JWTSecret:    "dev-secret-change-me",
			Issuer:       "swiftparcel",
			Audience:     "swiftparcel",
			TokenTTLHour: 24 * 7,
		},
		Wechat: WechatConfig{
			NotifyURL: "http://localhost:3001/api/payments/notify",
		},
		Payment: PaymentConfig{
			MockExpireMinute: 30,
		},
		RateLimit: RateLimitConfig{
			Limit:     100,
			WindowSec: 900,
		},
		Log: LogConfig{
			Driver: "logrus",
			Level:  "debug",
			Format: "text",
			Output: "stdout",
			Path:   "logs/app.log",
		},
	}
}
