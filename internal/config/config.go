// Package config loads service configuration from a YAML file with
// environment-variable overrides. Values are injected at construction;
// business logic never reads the environment directly.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Redis    RedisConfig    `yaml:"redis"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Services ServicesConfig `yaml:"services"`
	Order    OrderConfig    `yaml:"order"`
	Notify   NotifyConfig   `yaml:"notify"`
}

type HTTPConfig struct {
	Port string `yaml:"port"`
}

type MySQLConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
}

func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

type RabbitMQConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// ServicesConfig holds base URLs of the other services plus the shared
// remote-call timeout.
type ServicesConfig struct {
	InventoryURL    string        `yaml:"inventory_url"`
	WarehouseURL    string        `yaml:"warehouse_url"`
	DeliveryURL     string        `yaml:"delivery_url"`
	NotificationURL string        `yaml:"notification_url"`
	OptimizerURL    string        `yaml:"optimizer_url"`
	CallTimeout     time.Duration `yaml:"call_timeout"`
}

type OrderConfig struct {
	// TaxRate is a percentage expressed as a decimal string, e.g. "0.08".
	TaxRate string `yaml:"tax_rate"`
}

type NotifyConfig struct {
	// GatewayURL is the provider bridge that accepts outbound messages.
	GatewayURL   string        `yaml:"gateway_url"`
	MaxAttempts  int           `yaml:"max_attempts"`
	RetryBase    time.Duration `yaml:"retry_base"`
	RetryCap     time.Duration `yaml:"retry_cap"`
	PollInterval time.Duration `yaml:"poll_interval"`
	BatchSize    int           `yaml:"batch_size"`
}

// Load reads the YAML file at path (skipped when path is empty or the file
// is absent), applies env overrides and fills defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	override(&c.HTTP.Port, "PORT")
	override(&c.MySQL.User, "MYSQL_USER")
	override(&c.MySQL.Password, "MYSQL_PASSWORD")
	override(&c.MySQL.Host, "MYSQL_HOST")
	override(&c.MySQL.Port, "MYSQL_PORT")
	override(&c.MySQL.Database, "MYSQL_DATABASE")
	override(&c.Redis.Addr, "REDIS_ADDR")
	override(&c.RabbitMQ.URL, "RABBITMQ_URL")
	override(&c.Services.InventoryURL, "INVENTORY_SERVICE_URL")
	override(&c.Services.WarehouseURL, "WAREHOUSE_SERVICE_URL")
	override(&c.Services.DeliveryURL, "DELIVERY_SERVICE_URL")
	override(&c.Services.NotificationURL, "NOTIFICATION_SERVICE_URL")
	override(&c.Services.OptimizerURL, "OPTIMIZER_SERVICE_URL")
	override(&c.Notify.GatewayURL, "NOTIFY_GATEWAY_URL")
}

func (c *Config) applyDefaults() {
	if c.HTTP.Port == "" {
		c.HTTP.Port = "8080"
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "order.exchange"
	}
	if c.Services.CallTimeout == 0 {
		c.Services.CallTimeout = 5 * time.Second
	}
	if c.Order.TaxRate == "" {
		c.Order.TaxRate = "0.08"
	}
	if c.Notify.GatewayURL == "" {
		c.Notify.GatewayURL = "http://localhost:9900"
	}
	if c.Notify.MaxAttempts == 0 {
		c.Notify.MaxAttempts = 3
	}
	if c.Notify.RetryBase == 0 {
		c.Notify.RetryBase = 30 * time.Second
	}
	if c.Notify.RetryCap == 0 {
		c.Notify.RetryCap = 15 * time.Minute
	}
	if c.Notify.PollInterval == 0 {
		c.Notify.PollInterval = 5 * time.Second
	}
	if c.Notify.BatchSize == 0 {
		c.Notify.BatchSize = 50
	}
}

func override(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
