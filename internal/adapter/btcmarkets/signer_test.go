package btcmarkets

import (
	"errors"
	"testing"

	"github.com/ozbot-trading/ozbot/internal/adapter"
)

// base64("ozbot-test-secret")
const testSecret = "b3pib3QtdGVzdC1zZWNyZXQ="

const testAPIKey = "test-api-key"

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner(testAPIKey, testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestNewSigner_RejectsEmptyKey(t *testing.T) {
	_, err := NewSigner("", testSecret)
	var cfgErr *adapter.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestNewSigner_RejectsBadBase64(t *testing.T) {
	_, err := NewSigner(testAPIKey, "!!not-base64!!")
	var cfgErr *adapter.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestSign_KnownVector(t *testing.T) {
	s := newTestSigner(t)

	got, err := s.Sign("/order/create", "", 1234567890123, `{"orderIds":["12345"]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "P/1b7CdE6J2RyVQJBcM/N7xheJxVZuZO5eRHr640uQK6tTmlX9Zgb12eH0EqPJUzrELVDfhnudUCheUEEqFaQA=="
	if got != want {
		t.Fatalf("signature mismatch:\ngot:  %s\nwant: %s", got, want)
	}
}

func TestSign_KnownVectorEmptyBody(t *testing.T) {
	s := newTestSigner(t)

	got, err := s.Sign("/account/balance", "", 1234567890123, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "cIgo75b669otWkD1n8Wkbga0jVO+PtC7Vs0RgdtS2R9GG0sg+8cOiXS1Y+5mgbpEY4HaaymPQ989C7VDR4vvhg=="
	if got != want {
		t.Fatalf("signature mismatch:\ngot:  %s\nwant: %s", got, want)
	}
}

func TestSign_Deterministic(t *testing.T) {
	s := newTestSigner(t)

	first, err := s.Sign("/order/open", "limit=10&since=0", 1500000000000, `{"currency":"AUD"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := s.Sign("/order/open", "limit=10&since=0", 1500000000000, `{"currency":"AUD"}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatalf("signature not deterministic: %s vs %s", again, first)
		}
	}
}

func TestCanonicalString(t *testing.T) {
	got := canonicalString("/order/create", "limit=10", 42, `{"a":1}`)
	want := "/order/create\nlimit=10\n42\n{\"a\":1}"
	if got != want {
		t.Fatalf("canonical string mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestHeaders(t *testing.T) {
	s := newTestSigner(t)

	h, err := s.Headers("/account/balance", "", 1234567890123, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if h["apikey"] != testAPIKey {
		t.Errorf("unexpected apikey header: %s", h["apikey"])
	}
	if h["timestamp"] != "1234567890123" {
		t.Errorf("unexpected timestamp header: %s", h["timestamp"])
	}
	if h["signature"] == "" {
		t.Error("signature header missing")
	}
	if h["Accept"] != "*/*" {
		t.Errorf("unexpected Accept header: %s", h["Accept"])
	}
	if h["Content-Type"] != "application/json" {
		t.Errorf("unexpected Content-Type header: %s", h["Content-Type"])
	}
	if h["Accept-Charset"] != "UTF-8" {
		t.Errorf("unexpected Accept-Charset header: %s", h["Accept-Charset"])
	}
}
