package adapter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Response is the raw result of one exchange call. Non-2xx responses are
// returned as-is unless classified non-fatal: for trading operations the
// payload-level success flag is authoritative, not the HTTP status.
type Response struct {
	StatusCode int
	Status     string
	Payload    []byte
}

// RequestSender executes one blocking HTTP exchange call. Implementations
// return a *NetworkError for transient failures and leave everything else to
// the caller's error classification.
type RequestSender interface {
	Send(url, verb string, body []byte, headers map[string]string) (Response, error)
}

// HTTPTransport is the production RequestSender. It applies a connection
// timeout and two classification lists: HTTP status codes and error message
// substrings that mark a failure as transient (retryable by the caller).
type HTTPTransport struct {
	client           *http.Client
	nonFatalCodes    map[int]struct{}
	nonFatalMessages []string
}

// NewHTTPTransport creates a transport with the given connection timeout and
// non-fatal classification lists.
func NewHTTPTransport(timeout time.Duration, nonFatalCodes []int, nonFatalMessages []string) *HTTPTransport {
	codes := make(map[int]struct{}, len(nonFatalCodes))
	for _, c := range nonFatalCodes {
		codes[c] = struct{}{}
	}
	return &HTTPTransport{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: timeout}).DialContext,
			},
		},
		nonFatalCodes:    codes,
		nonFatalMessages: nonFatalMessages,
	}
}

// Send executes the call. Classification:
//   - connection failures matching a configured message substring, timeouts
//     included, surface as *NetworkError;
//   - responses with a configured non-fatal status code surface as
//     *NetworkError carrying the status;
//   - any other response, 2xx or not, is returned raw.
func (t *HTTPTransport) Send(url, verb string, body []byte, headers map[string]string) (Response, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(verb, url, reader)
	if err != nil {
		return Response{}, fmt.Errorf("build request %s %s: %w", verb, url, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		if t.isNonFatal(err) {
			return Response{}, &NetworkError{URL: url, Err: err}
		}
		return Response{}, fmt.Errorf("send %s %s: %w", verb, url, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, &NetworkError{URL: url, Err: err}
	}

	if _, ok := t.nonFatalCodes[resp.StatusCode]; ok {
		return Response{}, &NetworkError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        errors.New(resp.Status),
		}
	}

	return Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Payload:    payload,
	}, nil
}

// isNonFatal reports whether a connection-level failure should be retryable.
// Timeouts always are; everything else is matched against the configured
// message substrings.
func (t *HTTPTransport) isNonFatal(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := err.Error()
	for _, sub := range t.nonFatalMessages {
		if strings.Contains(msg, sub) {
			return true
		}
	}
	return false
}
