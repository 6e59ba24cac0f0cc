package config

import (
	"os"
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Env != "development" {
		t.Errorf("expected env=development, got %s", cfg.Env)
	}

	if cfg.Exchange.BaseURL != "https://api.btcmarkets.net" {
		t.Errorf("unexpected base url: %s", cfg.Exchange.BaseURL)
	}

	if cfg.Network.ConnectionTimeoutSec != 30 {
		t.Errorf("expected timeout 30, got %d", cfg.Network.ConnectionTimeoutSec)
	}

	if cfg.Trading.OrdersLimit != 100 {
		t.Errorf("expected orders limit 100, got %d", cfg.Trading.OrdersLimit)
	}

	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("expected redis addr localhost:6379, got %s", cfg.Redis.Addr)
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("OZBOT_ENV", "production")
	os.Setenv("OZBOT_EXCHANGE_KEY", "test-api-key")
	os.Setenv("OZBOT_TRADING_ORDER_TYPE", "Market")
	defer os.Unsetenv("OZBOT_ENV")
	defer os.Unsetenv("OZBOT_EXCHANGE_KEY")
	defer os.Unsetenv("OZBOT_TRADING_ORDER_TYPE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Env != "production" {
		t.Errorf("expected env=production, got %s", cfg.Env)
	}

	if cfg.Exchange.Key != "test-api-key" {
		t.Errorf("unexpected exchange key: %s", cfg.Exchange.Key)
	}

	if cfg.Trading.OrderType != "Market" {
		t.Errorf("unexpected order type: %s", cfg.Trading.OrderType)
	}
}

func TestNetworkCodes(t *testing.T) {
	n := NetworkConfig{NonFatalErrorCodes: "502, 503,504,, bogus"}

	got := n.Codes()
	want := []int{502, 503, 504}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected codes: got %v, want %v", got, want)
	}
}

func TestNetworkMessages(t *testing.T) {
	n := NetworkConfig{NonFatalErrorMsgs: "Connection reset, Connection refused,"}

	got := n.Messages()
	want := []string{"Connection reset", "Connection refused"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected messages: got %v, want %v", got, want)
	}
}
