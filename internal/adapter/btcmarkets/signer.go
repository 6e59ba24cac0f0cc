package btcmarkets

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"strconv"

	"github.com/awnumar/memguard"

	"github.com/ozbot-trading/ozbot/internal/adapter"
)

// Signer produces the authentication headers for private API calls. The
// decoded secret lives inside a memguard enclave and is only materialised
// in plaintext for the duration of a single HMAC computation.
type Signer struct {
	apiKey  string
	enclave *memguard.Enclave
}

// NewSigner decodes the base64 API secret and seals it. The plaintext slice
// handed to memguard is wiped by the enclave constructor.
func NewSigner(apiKey, secretB64 string) (*Signer, error) {
	if apiKey == "" {
		return nil, adapter.NewConfigError("api key is empty", nil)
	}
	if secretB64 == "" {
		return nil, adapter.NewConfigError("api secret is empty", nil)
	}
	raw, err := base64.StdEncoding.DecodeString(secretB64)
	if err != nil {
		return nil, adapter.NewConfigError("api secret is not valid base64", err)
	}
	return &Signer{
		apiKey:  apiKey,
		enclave: memguard.NewEnclave(raw),
	}, nil
}

// canonicalString assembles the exact byte sequence that gets signed:
//
//	path + "\n" + query + "\n" + timestampMillis + "\n" + body
//
// query and body are empty strings when absent; the newlines are always
// present. The query string here must be byte-identical to the one sent on
// the request URL.
func canonicalString(path, query string, tsMillis int64, body string) string {
	return path + "\n" + query + "\n" + strconv.FormatInt(tsMillis, 10) + "\n" + body
}

// Sign computes base64(HMAC-SHA512(secret, canonical)) for the given request
// parts.
func (s *Signer) Sign(path, query string, tsMillis int64, body string) (string, error) {
	buf, err := s.enclave.Open()
	if err != nil {
		return "", adapter.NewConfigError("opening secret enclave", err)
	}
	defer buf.Destroy()

	mac := hmac.New(sha512.New, buf.Bytes())
	mac.Write([]byte(canonicalString(path, query, tsMillis, body)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Headers returns the full header set for an authenticated request.
func (s *Signer) Headers(path, query string, tsMillis int64, body string) (map[string]string, error) {
	sig, err := s.Sign(path, query, tsMillis, body)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"apikey":         s.apiKey,
		"timestamp":      strconv.FormatInt(tsMillis, 10),
		"signature":      sig,
		"Accept":         "*/*",
		"Accept-Charset": "UTF-8",
		"Content-Type":   "application/json",
	}, nil
}
