package config

import (
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Env      string `mapstructure:"env"`
	Exchange ExchangeConfig
	Network  NetworkConfig
	Trading  TradingConfig
	Redis    RedisConfig
}

// ExchangeConfig holds BTC Markets API credentials and endpoint.
type ExchangeConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Key     string `mapstructure:"key"`
	Secret  string `mapstructure:"secret"` // base64-encoded
}

// NetworkConfig holds the transport policy: connection timeout plus the HTTP
// status codes and error message substrings classified as transient.
type NetworkConfig struct {
	ConnectionTimeoutSec int    `mapstructure:"connection_timeout_sec"`
	NonFatalErrorCodes   string `mapstructure:"non_fatal_error_codes"`    // comma-separated ints
	NonFatalErrorMsgs    string `mapstructure:"non_fatal_error_messages"` // comma-separated substrings
}

// Codes parses the comma-separated status code list. Unparseable entries are
// skipped.
func (n NetworkConfig) Codes() []int {
	var out []int
	for _, s := range strings.Split(n.NonFatalErrorCodes, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		c, err := strconv.Atoi(s)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Messages parses the comma-separated message substring list.
func (n NetworkConfig) Messages() []string {
	var out []string
	for _, s := range strings.Split(n.NonFatalErrorMsgs, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// TradingConfig holds optional trading parameters.
type TradingConfig struct {
	BuyFeePercent    string `mapstructure:"buy_fee_percent"`
	SellFeePercent   string `mapstructure:"sell_fee_percent"`
	OrderType        string `mapstructure:"order_type"`
	OrdersLimit      int    `mapstructure:"orders_limit"`
	OrdersSinceHours int    `mapstructure:"orders_since_hours"`
}

// RedisConfig holds Redis connection settings for the quote writer.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Load reads configuration from environment variables prefixed with OZBOT_.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("OZBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("env", "development")

	// Exchange defaults
	v.SetDefault("exchange.base_url", "https://api.btcmarkets.net")

	// Network defaults
	v.SetDefault("network.connection_timeout_sec", 30)
	v.SetDefault("network.non_fatal_error_codes", "502,503,504")
	v.SetDefault("network.non_fatal_error_messages", "Connection reset,Connection refused,Remote host closed connection during handshake")

	// Trading defaults
	v.SetDefault("trading.buy_fee_percent", "0.85")
	v.SetDefault("trading.sell_fee_percent", "0.85")
	v.SetDefault("trading.order_type", "Limit")
	v.SetDefault("trading.orders_limit", 100)
	v.SetDefault("trading.orders_since_hours", 24)

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	cfg := &Config{}

	cfg.Env = v.GetString("env")

	cfg.Exchange = ExchangeConfig{
		BaseURL: v.GetString("exchange.base_url"),
		Key:     v.GetString("exchange.key"),
		Secret:  v.GetString("exchange.secret"),
	}

	cfg.Network = NetworkConfig{
		ConnectionTimeoutSec: v.GetInt("network.connection_timeout_sec"),
		NonFatalErrorCodes:   v.GetString("network.non_fatal_error_codes"),
		NonFatalErrorMsgs:    v.GetString("network.non_fatal_error_messages"),
	}

	cfg.Trading = TradingConfig{
		BuyFeePercent:    v.GetString("trading.buy_fee_percent"),
		SellFeePercent:   v.GetString("trading.sell_fee_percent"),
		OrderType:        v.GetString("trading.order_type"),
		OrdersLimit:      v.GetInt("trading.orders_limit"),
		OrdersSinceHours: v.GetInt("trading.orders_since_hours"),
	}

	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}

	return cfg, nil
}
